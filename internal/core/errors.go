package core

import (
	"errors"
	"fmt"
)

// Error classes surfaced to the HTTP layer.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries a caller-facing message together with its class.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func conflictError(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// NewValidationError builds a validation error with a fixed message.
func NewValidationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}
