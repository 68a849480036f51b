package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := repo.GetByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestUserRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	_, err := repo.Create(ctx, user.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Username: "Alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = repo.Create(ctx, user.User{Username: "bob", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	usernameTaken, emailTaken, err := repo.ExistsByUsernameOrEmail(ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	assert.False(t, usernameTaken)
	assert.True(t, emailTaken)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = repo.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
