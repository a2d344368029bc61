package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP status mapping
type Kind int

const (
	// KindInvalidRequest covers client input and business-rule violations
	KindInvalidRequest Kind = iota
	// KindNotFound means a referenced entity is absent or soft-deleted
	KindNotFound
	// KindForbidden means a role or ownership check failed
	KindForbidden
	// KindUnauthorized means the caller carries no valid identity
	KindUnauthorized
	// KindInternal is an unexpected failure; its message never reaches callers
	KindInternal
)

// Error carries a stable (kind, message) pair from services to the HTTP
// boundary. Internal errors wrap the underlying cause for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid returns an InvalidRequest error
func Invalid(message string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

// NotFound returns a NotFound error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden returns a Forbidden error
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Unauthorized returns an Unauthorized error
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an unexpected failure from a collaborator
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// Internalf wraps an unexpected failure with context for server-side logs
func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: fmt.Errorf(format, args...)}
}

// FromError extracts an *Error, treating anything else as Internal
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf reports the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	return FromError(err).Kind
}

// HTTPStatus maps an error to the HTTP status code the boundary returns
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
