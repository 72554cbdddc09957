package memory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors returned by Store operations. Callers match them with
// errors.Is; all are recoverable.
var (
	// ErrNotFound means an operation referenced an ID absent from the
	// store. Not necessarily a bug: the record may have been evicted.
	ErrNotFound = errors.New("memory not found")

	// ErrDimensionMismatch means a supplied vector's length does not
	// match the dimensionality established by the store's first insert.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidParameter means a numeric parameter is outside its valid
	// domain (negative limit, non-finite threshold, ...).
	ErrInvalidParameter = errors.New("invalid parameter")
)

func notFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func dimensionError(got, want int) error {
	return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, got, want)
}

func invalidParameterError(name string, value any) error {
	return fmt.Errorf("%w: %v for %q", ErrInvalidParameter, value, name)
}
