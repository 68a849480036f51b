package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	"github.com/google/uuid"
)

// UserRepository keeps accounts in process memory. Accounts are lost on restart.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]user.User),
		now:   time.Now,
	}
}

var _ user.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, newUser.Username) {
			return user.User{}, user.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrEmailTaken
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, err
	}
	now := r.now().UTC()
	newUser.ID = id.String()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var usernameTaken, emailTaken bool
	for _, u := range r.users {
		usernameTaken = usernameTaken || strings.EqualFold(u.Username, username)
		emailTaken = emailTaken || strings.EqualFold(u.Email, email)
	}
	return usernameTaken, emailTaken, nil
}
