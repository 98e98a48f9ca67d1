package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors surfaced to callers. Each one is a caller mistake or a
// legitimate business-rule rejection, never swallowed.
var (
	// ErrNotFound is returned when the referenced order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrAlreadySubmitted is returned when payment proof is re-submitted for
	// an order that is already pending verification or paid.
	ErrAlreadySubmitted = errors.New("Payment details already submitted for this order.")
)

// ValidationError indicates malformed or missing required input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
