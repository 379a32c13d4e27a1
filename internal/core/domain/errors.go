package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("invalid credentials")
	ErrForbidden       = errors.New("insufficient permission")
	ErrDecryption      = errors.New("stored secret unusable")
	ErrDependency      = errors.New("dependency failure")
)

// Invalid wraps ErrValidation with a field-level message so handlers can
// return it verbatim while errors.Is still matches the sentinel.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
