package grid

import "fmt"

// Dims are the fixed extents of a logical cell grid.
type Dims struct {
	X, Y, Z int
}

// Coord addresses one cell of a grid.
type Coord struct {
	X, Y, Z int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// Len is the number of addresses in the grid.
func (d Dims) Len() int { return d.X * d.Y * d.Z }

// Contains reports whether c lies inside d.
func (d Dims) Contains(c Coord) bool {
	return d.Check(c) == nil
}

// Check returns an *OutOfBoundsError for the first axis of c outside d.
func (d Dims) Check(c Coord) error {
	switch {
	case c.X < 0 || c.X >= d.X:
		return &OutOfBoundsError{Axis: "x", Value: c.X, Max: d.X}
	case c.Y < 0 || c.Y >= d.Y:
		return &OutOfBoundsError{Axis: "y", Value: c.Y, Max: d.Y}
	case c.Z < 0 || c.Z >= d.Z:
		return &OutOfBoundsError{Axis: "z", Value: c.Z, Max: d.Z}
	}
	return nil
}

// Each calls fn for every address in x, y, z nesting order.
func (d Dims) Each(fn func(c Coord)) {
	for x := 0; x < d.X; x++ {
		for y := 0; y < d.Y; y++ {
			for z := 0; z < d.Z; z++ {
				fn(Coord{x, y, z})
			}
		}
	}
}
