package grid

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every *OutOfBoundsError via errors.Is.
var ErrOutOfBounds = errors.New("grid: address out of bounds")

// OutOfBoundsError reports an address component outside the declared
// dimensions.
type OutOfBoundsError struct {
	Axis  string
	Value int
	Max   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid: %s=%d out of bounds [0,%d)", e.Axis, e.Value, e.Max)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
