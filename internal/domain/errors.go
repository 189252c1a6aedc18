package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrNotConfigured     = errors.New("not configured")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Error carries a user-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("product", "tee").
func NotFound(entity, key string) *Error {
	return NewError(ErrNotFound, "%s not found: %s", entity, key)
}

// Invalid reports a validation failure with a single message.
func Invalid(format string, args ...interface{}) *Error {
	return NewError(ErrValidation, format, args...)
}

// InvalidFields reports a validation failure with per-field messages.
func InvalidFields(fields map[string][]string) *Error {
	return &Error{Kind: ErrValidation, Message: "Validation error", Fields: fields}
}
