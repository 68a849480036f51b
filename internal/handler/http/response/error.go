package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var notFound *personio.ProjectNotFoundError

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		Unauthorized(w, "Account no longer exists")

	// Account errors
	case errors.Is(err, user.ErrUsernameTaken):
		Conflict(w, "Username already taken")
	case errors.Is(err, user.ErrEmailTaken):
		Conflict(w, "Email already registered")

	// Report errors
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error())

	// Upstream HR API
	case personio.IsUpstreamError(err):
		slog.Error("Upstream request failed", "error", err)
		BadGateway(w, "The HR system request failed")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
