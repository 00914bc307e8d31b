package grid

// FlatIndexToXyz decomposes a flat index into a coordinate.
func FlatIndexToXyz(index int, d Dims) (Coord, error) {
	if index < 0 || index >= d.Len() {
		return Coord{}, &OutOfBoundsError{Axis: "index", Value: index, Max: d.Len()}
	}
	plane := d.X * d.Z
	y := index / plane
	r := index - y*plane
	c := Coord{X: r % d.X, Y: y, Z: r / d.X}
	if err := d.Check(c); err != nil {
		return Coord{}, err
	}
	return c, nil
}

// XyzToFlatIndex is the inverse of FlatIndexToXyz.
func XyzToFlatIndex(c Coord, d Dims) (int, error) {
	if err := d.Check(c); err != nil {
		return 0, err
	}
	return c.Y*d.X*d.Z + c.Z*d.X + c.X, nil
}

// ColumnIndex maps a 2D column position to its index in row-major order.
func ColumnIndex(x, y, xMax int) int {
	return y*xMax + x
}
