// Package apperr defines the error taxonomy shared by all services.
// Ownership failures are deliberately indistinguishable from absence:
// both surface as ErrNotFound so callers cannot probe whether an
// entity exists under another owner.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "no such entity" and "not yours".
	ErrNotFound = errors.New("not found")

	// ErrValidation marks caller input rejected at the boundary.
	ErrValidation = errors.New("validation failed")

	// ErrPrecondition marks an operation invoked in a state that
	// forbids it (empty cart at checkout, invalid status transition).
	ErrPrecondition = errors.New("precondition failed")

	// ErrExternal marks a failure of an outside collaborator, such as
	// the payment gateway.
	ErrExternal = errors.New("external service failure")
)

// FieldErrors carries field-level detail for a validation failure.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

// Validation builds a FieldErrors from a field -> message map.
func Validation(fields map[string]string) error {
	return &FieldErrors{Fields: fields}
}

// Validationf builds a single-field validation error.
func Validationf(field, format string, args ...interface{}) error {
	return &FieldErrors{Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}
