package postgresql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, MigrateUsers(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE dashboard_users")
	require.NoError(t, err)
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	name := fmt.Sprintf("user-%d", time.Now().UnixNano())
	created, err := repo.Create(ctx, user.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hash", created.PasswordHash)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, byID.Username)

	byName, err := repo.GetByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	usernameTaken, emailTaken, err := repo.ExistsByUsernameOrEmail(ctx, name, "free@example.com")
	require.NoError(t, err)
	assert.True(t, usernameTaken)
	assert.False(t, emailTaken)
}

func TestUserRepository_Duplicates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	_, err := repo.Create(ctx, user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Username: "ALICE", Email: "other@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = repo.Create(ctx, user.User{Username: "bob", Email: "Alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
