package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrRateUnavailable is returned when an exchange rate cannot be obtained.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// ValidationError describes input rejected before it reaches storage or the
// aggregators.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
