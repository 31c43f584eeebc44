package apperr

import "errors"

// Kinds. Every error surfaced by a service unwraps to exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrInvariant  = errors.New("invariant violated")
	ErrRateLimit  = errors.New("rate limited")
)

// Error is a client-facing message tagged with a kind.
type Error struct {
	Kind    error
	Message string
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// FieldError is a validation failure scoped to one input field.
type FieldError struct {
	Field   string
	Message string
}

func Field(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return ErrValidation }

func Conflict(message string) *Error  { return New(ErrConflict, message) }
func NotFound(message string) *Error  { return New(ErrNotFound, message) }
func Forbidden(message string) *Error { return New(ErrForbidden, message) }
func Invariant(message string) *Error { return New(ErrInvariant, message) }
func Invalid(message string) *Error   { return New(ErrValidation, message) }

// FieldOf returns the field name of a validation error, if any.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
