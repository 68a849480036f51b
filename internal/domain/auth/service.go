package auth

import (
	"context"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)
	Logout(ctx context.Context, token string) error
	// EnsureAdmin creates the bootstrap account unless its username already exists.
	EnsureAdmin(ctx context.Context, req RegisterRequest) error
}
