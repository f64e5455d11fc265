package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets wrapped copies of a sentinel match the sentinel itself.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation errors
	ErrValidation       = NewDomainError("VALIDATION_ERROR", "a required field was missing or malformed")
	ErrPasswordMismatch = NewDomainError("PASSWORD_MISMATCH", "new password and confirmation do not match")
	ErrInvalidID        = NewDomainError("INVALID_IDENTIFIER", "identifier is not a well-formed reference")

	// Uniqueness violations
	ErrUserExists = NewDomainError("CONFLICT", "a user with this username or email already exists")

	// Authentication errors
	ErrMissingToken       = NewDomainError("MISSING_TOKEN", "access credential absent")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrStaleRefreshToken  = NewDomainError("STALE_REFRESH_TOKEN", "refresh token has been superseded")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid username, email or password")
	ErrUnauthenticated    = NewDomainError("UNAUTHENTICATED", "authentication required")

	// Authorization errors
	ErrForbidden = NewDomainError("FORBIDDEN", "not permitted to act on this resource")

	// Missing entities
	ErrUserNotFound    = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrVideoNotFound   = NewDomainError("VIDEO_NOT_FOUND", "video not found")
	ErrChannelNotFound = NewDomainError("CHANNEL_NOT_FOUND", "channel not available")

	// System errors
	ErrUpstream = NewDomainError("UPSTREAM_FAILURE", "upstream operation failed")
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "PASSWORD_MISMATCH", "INVALID_IDENTIFIER":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "MISSING_TOKEN", "INVALID_TOKEN", "TOKEN_EXPIRED",
		"STALE_REFRESH_TOKEN", "INVALID_CREDENTIALS", "UNAUTHENTICATED":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "FORBIDDEN":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "VIDEO_NOT_FOUND", "CHANNEL_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "CONFLICT":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
