package cells

import (
	"math"

	"github.com/san-kum/cellviz/internal/grid"
)

// InputCells holds a flat array of input bits. By default the bits are laid
// out in one row; the square layout folds them into floor(sqrt(n)) rows of
// floor(sqrt(n)), leaving any remainder addressable by index only.
type InputCells struct {
	n     int
	dims  grid.Dims
	cells []Value
	sel   Selection
}

// NewInputCells returns n input bits, each tagged with its index.
func NewInputCells(n int, square bool) *InputCells {
	d := grid.Dims{X: n, Y: 1, Z: 1}
	if square {
		side := int(math.Floor(math.Sqrt(float64(n))))
		d = grid.Dims{X: side, Y: side, Z: 1}
	}
	cs := make([]Value, n)
	for i := range cs {
		cs[i] = Value{CellIndex: i}
	}
	return &InputCells{n: n, dims: d, cells: cs}
}

func (in *InputCells) Len() int              { return in.n }
func (in *InputCells) Dims() grid.Dims       { return in.dims }
func (in *InputCells) Selection() *Selection { return &in.sel }

// CellXyz maps a bit index to its position in the layout.
func (in *InputCells) CellXyz(index int) (grid.Coord, error) {
	return grid.FlatIndexToXyz(index, in.dims)
}

func (in *InputCells) index(c grid.Coord) (int, error) {
	return grid.XyzToFlatIndex(c, in.dims)
}

func (in *InputCells) Get(c grid.Coord) (Value, error) {
	i, err := in.index(c)
	if err != nil {
		return Value{}, err
	}
	return in.cells[i], nil
}

func (in *InputCells) CellValue(c grid.Coord) (Value, bool) {
	v, err := in.Get(c)
	return v, err == nil
}

// Bit returns the value of bit i.
func (in *InputCells) Bit(i int) (Value, error) {
	if i < 0 || i >= in.n {
		return Value{}, &grid.OutOfBoundsError{Axis: "index", Value: i, Max: in.n}
	}
	return in.cells[i], nil
}

// UpdateBit updates bit i, including bits outside a square layout.
func (in *InputCells) UpdateBit(i int, p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if i < 0 || i >= in.n {
		return &grid.OutOfBoundsError{Axis: "index", Value: i, Max: in.n}
	}
	p.apply(&in.cells[i], opts)
	return nil
}

func (in *InputCells) Update(c grid.Coord, p Patch, opts UpdateOptions) error {
	i, err := in.index(c)
	if err != nil {
		return err
	}
	return in.UpdateBit(i, p, opts)
}

func (in *InputCells) UpdateAll(p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	for i := range in.cells {
		p.apply(&in.cells[i], opts)
	}
	return nil
}

func (in *InputCells) PeekUpdate(c grid.Coord, fn func(Value, func(Patch))) error {
	i, err := in.index(c)
	if err != nil {
		return err
	}
	fn(in.cells[i], func(p Patch) { p.apply(&in.cells[i], UpdateOptions{}) })
	return nil
}

func (in *InputCells) PeekUpdateAll(fn func(Value, grid.Coord, func(Patch))) error {
	var err error
	in.dims.Each(func(c grid.Coord) {
		if err != nil {
			return
		}
		err = in.PeekUpdate(c, func(v Value, apply func(Patch)) { fn(v, c, apply) })
	})
	return err
}

// CellCoord is CellXyz.
func (in *InputCells) CellCoord(index int) (grid.Coord, error) { return in.CellXyz(index) }

// ColumnCoords treats an input column as the single bit it names.
func (in *InputCells) ColumnCoords(column int) ([]grid.Coord, error) {
	c, err := in.CellXyz(column)
	if err != nil {
		return nil, err
	}
	return []grid.Coord{c}, nil
}

func (in *InputCells) Selected() []grid.Coord { return selected(in) }
