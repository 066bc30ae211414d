package hnsw

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyVector = errors.New("vector cannot be empty")
	ErrInvalidK    = errors.New("k must be positive")
	ErrDuplicateID = errors.New("node already inserted")
)

type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

type ErrIDOutOfRange struct {
	ID       uint32
	Capacity int
}

func (e *ErrIDOutOfRange) Error() string {
	return fmt.Sprintf("id %d out of range (capacity %d)", e.ID, e.Capacity)
}

// SearchResult is a single neighbor reported by KNNSearch.
type SearchResult struct {
	ID       uint32
	Distance float32
}

// Neighbor is a stored graph edge with its cached distance.
type Neighbor struct {
	ID   uint32
	Dist float32
}
