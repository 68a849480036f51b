package personio

import (
	"errors"
	"fmt"
)

var ErrMissingCredentials = errors.New("personio client id and client secret are required")

// AuthError means the upstream rejected the credentials or answered the token
// exchange with something unusable.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("personio authentication failed: %s: %v", e.Message, e.Err)
	}
	return "personio authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProtocolError means the upstream answered with an unexpected content type or shape.
type ProtocolError struct {
	StatusCode  int
	ContentType string
	Message     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("personio protocol error [%d %s]: %s", e.StatusCode, e.ContentType, e.Message)
}

// NetworkError means the request never produced an upstream response.
type NetworkError struct {
	Method   string
	Resource string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("personio %s %s: %v", e.Method, e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ApiError is a structured failure reported inside the response envelope.
type ApiError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("personio API error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// InvalidTokenCode is the only error code the client retries on.
const InvalidTokenCode = "INVALID_TOKEN"

func (e *ApiError) IsInvalidToken() bool {
	return e.Code == InvalidTokenCode
}

// MalformedResponseError means a normalized record lacks a required field.
type MalformedResponseError struct {
	Resource string
	Field    string
	Index    int
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s record at index %d: missing or invalid field %q", e.Resource, e.Index, e.Field)
}

// ProjectNotFoundError means a requested project name or id could not be resolved.
type ProjectNotFoundError struct {
	Name string
	ID   int
}

func (e *ProjectNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("project not found: %q", e.Name)
	}
	return fmt.Sprintf("project not found: id %d", e.ID)
}

// IsUpstreamError reports whether err originates from the upstream HR API.
func IsUpstreamError(err error) bool {
	var (
		authErr      *AuthError
		protocolErr  *ProtocolError
		apiErr       *ApiError
		malformedErr *MalformedResponseError
		networkErr   *NetworkError
	)
	return errors.As(err, &authErr) ||
		errors.As(err, &protocolErr) ||
		errors.As(err, &apiErr) ||
		errors.As(err, &malformedErr) ||
		errors.As(err, &networkErr)
}
