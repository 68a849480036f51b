package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
	"github.com/cmlabs-hris/timesheet-reports/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService() (*AuthServiceImpl, *jwt.JWTService) {
	jwtSvc := jwt.NewJWTService(testSecret, testAccessExp, false)
	svc := NewAuthService(memory.NewUserRepository(), jwtSvc)
	svc.cost = bcrypt.MinCost
	return svc, jwtSvc
}

var validRegistration = auth.RegisterRequest{
	Username: "alice",
	Email:    "alice@example.com",
	Password: "SecurePass123!",
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), validRegistration)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	stored, err := svc.UserRepository.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, validRegistration.Password, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(validRegistration.Password)))
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)

	_, err = svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	_, err = svc.Register(ctx, auth.RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "a", Email: "nope", Password: "short"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestLogin(t *testing.T) {
	svc, jwtSvc := newTestAuthService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "SecurePass123!"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	assert.Positive(t, tokens.AccessTokenExpiresIn)

	token, err := jwtauth.VerifyToken(jwtSvc.JWTAuth(), tokens.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims["user_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "mallory", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)

	me, err := svc.Me(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered, me)

	_, err = svc.Me(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, jwtSvc := newTestAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration)
	require.NoError(t, err)
	tokens, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "SecurePass123!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.AccessToken))
	assert.True(t, jwtSvc.IsTokenRevoked(tokens.AccessToken))

	assert.NoError(t, svc.Logout(ctx, "not-a-token"))
	assert.False(t, jwtSvc.IsTokenRevoked("not-a-token"))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, validRegistration))
	require.NoError(t, svc.EnsureAdmin(ctx, validRegistration))

	_, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "SecurePass123!"})
	assert.NoError(t, err)
}
