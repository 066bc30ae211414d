package kernel

import (
	"errors"
	"fmt"

	"github.com/invariant-sdk/kernel/crystal"
)

var (
	// ErrInvalidMode is returned for an unknown crystallization mode.
	ErrInvalidMode = errors.New("invalid crystallization mode")

	// ErrInvalidTopK is returned when topK is negative.
	ErrInvalidTopK = errors.New("topK must be >= 0")
)

// ErrDimensionMismatch indicates that a vector's length differs from the
// first vector of the collection.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Index    int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at vector %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidConfig reports a configuration field that failed validation.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sm *crystal.ShapeMismatchError
	if errors.As(err, &sm) {
		return &ErrDimensionMismatch{Index: sm.Index, Expected: sm.Expected, Actual: sm.Actual, cause: err}
	}
	if errors.Is(err, crystal.ErrInvalidTopK) {
		return fmt.Errorf("%w: %w", ErrInvalidTopK, err)
	}

	return err
}
