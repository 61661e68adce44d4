package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for login failures. The same error
	// covers unknown identifiers and wrong passwords so responses do not
	// leak which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when an authenticated user is not allowed to
	// act on the target resource.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError marks malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
