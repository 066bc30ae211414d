package crystal

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch matches every *ShapeMismatchError via errors.Is.
	ErrShapeMismatch = errors.New("crystal: vectors differ in dimensionality")

	// ErrInvalidTopK is returned for a negative topK.
	ErrInvalidTopK = errors.New("crystal: topK must be >= 0")

	// ErrZeroDimension is returned by Approx when all vectors are empty.
	ErrZeroDimension = errors.New("crystal: vectors have zero dimensions")
)

// ShapeMismatchError reports the first vector whose length differs from vector 0.
type ShapeMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("crystal: vector %d has dimension %d, expected %d", e.Index, e.Actual, e.Expected)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// validate returns the shared dimensionality of vectors.
func validate(vectors [][]float32) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors[1:] {
		if len(v) != dim {
			return 0, &ShapeMismatchError{Index: i + 1, Expected: dim, Actual: len(v)}
		}
	}
	return dim, nil
}
