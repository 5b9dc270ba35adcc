package service

import "errors"

// Error kinds. Handlers translate these to HTTP statuses with errors.Is;
// services attach the human-readable message with E.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// E wraps a message in one of the error kinds above.
func E(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
