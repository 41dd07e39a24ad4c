package kafka

import (
	"errors"

	"courier-dispatch/internal/apperr"
)

// PermanentError marks a handler failure that retrying will not fix.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent returns a permanent error.
func Permanent(err error) error {
	return PermanentError{Err: err}
}

// IsPermanent reports whether the message that produced err should be skipped.
// Validation and missing-entity errors are permanent too.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, apperr.ErrInvalid) || errors.Is(err, apperr.ErrNotFound)
}
