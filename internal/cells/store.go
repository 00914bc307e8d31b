package cells

import "github.com/san-kum/cellviz/internal/grid"

// Store is an addressable container of cell values.
type Store interface {
	Dims() grid.Dims
	// Get fails with *grid.OutOfBoundsError for any address outside the store.
	Get(c grid.Coord) (Value, error)
	// CellValue reports whether a cell exists at c. Renderers use it to
	// decide whether a mesh belongs at an address.
	CellValue(c grid.Coord) (Value, bool)
	Update(c grid.Coord, p Patch, opts UpdateOptions) error
	UpdateAll(p Patch, opts UpdateOptions) error
	PeekUpdate(c grid.Coord, fn func(current Value, apply func(Patch))) error
	PeekUpdateAll(fn func(current Value, c grid.Coord, apply func(Patch))) error
	// CellCoord maps a cell index, as used by selections and segments, to
	// an address.
	CellCoord(index int) (grid.Coord, error)
	// ColumnCoords lists the addresses of one column's cells.
	ColumnCoords(column int) ([]grid.Coord, error)
	Selection() *Selection
	// Selected lists the addresses matching the current selection.
	Selected() []grid.Coord
}

// Selection is the optional cell or column a store highlights.
type Selection struct {
	Cell   *int
	Column *int
}

func (s *Selection) SelectCell(i int)   { s.Cell = &i }
func (s *Selection) SelectColumn(i int) { s.Column = &i }
func (s *Selection) Clear()             { s.Cell, s.Column = nil, nil }

// Active reports whether anything is selected.
func (s *Selection) Active() bool { return s.Cell != nil || s.Column != nil }

// dense backs every store with a flat slice in grid index order.
type dense struct {
	dims  grid.Dims
	cells []Value
	sel   Selection
}

func newDense(d grid.Dims, init func(i int) Value) dense {
	cs := make([]Value, d.Len())
	for i := range cs {
		cs[i] = init(i)
	}
	return dense{dims: d, cells: cs}
}

func (g *dense) Dims() grid.Dims       { return g.dims }
func (g *dense) Selection() *Selection { return &g.sel }

func (g *dense) index(c grid.Coord) (int, error) {
	return grid.XyzToFlatIndex(c, g.dims)
}

func (g *dense) Get(c grid.Coord) (Value, error) {
	i, err := g.index(c)
	if err != nil {
		return Value{}, err
	}
	return g.cells[i], nil
}

func (g *dense) CellValue(c grid.Coord) (Value, bool) {
	v, err := g.Get(c)
	return v, err == nil
}

func (g *dense) Update(c grid.Coord, p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	i, err := g.index(c)
	if err != nil {
		return err
	}
	p.apply(&g.cells[i], opts)
	return nil
}

func (g *dense) UpdateAll(p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	for i := range g.cells {
		p.apply(&g.cells[i], opts)
	}
	return nil
}

func (g *dense) PeekUpdate(c grid.Coord, fn func(Value, func(Patch))) error {
	i, err := g.index(c)
	if err != nil {
		return err
	}
	fn(g.cells[i], func(p Patch) { p.apply(&g.cells[i], UpdateOptions{}) })
	return nil
}

func (g *dense) PeekUpdateAll(fn func(Value, grid.Coord, func(Patch))) error {
	var err error
	g.dims.Each(func(c grid.Coord) {
		if err != nil {
			return
		}
		err = g.PeekUpdate(c, func(v Value, apply func(Patch)) { fn(v, c, apply) })
	})
	return err
}

// Grid is a plain X by Y by Z block of cells. Columns run along z.
type Grid struct {
	dense
}

// NewGrid returns a grid with every cell at the zero Value.
func NewGrid(x, y, z int) *Grid {
	return &Grid{newDense(grid.Dims{X: x, Y: y, Z: z}, func(int) Value { return Value{} })}
}

// CellCoord treats index as a flat grid index.
func (g *Grid) CellCoord(index int) (grid.Coord, error) {
	return grid.FlatIndexToXyz(index, g.dims)
}

// ColumnCoords treats column as x + y*X; the column runs along z.
func (g *Grid) ColumnCoords(column int) ([]grid.Coord, error) {
	if column < 0 || column >= g.dims.X*g.dims.Y {
		return nil, &grid.OutOfBoundsError{Axis: "column", Value: column, Max: g.dims.X * g.dims.Y}
	}
	out := make([]grid.Coord, g.dims.Z)
	for z := range out {
		out[z] = grid.Coord{X: column % g.dims.X, Y: column / g.dims.X, Z: z}
	}
	return out, nil
}

func (g *Grid) Selected() []grid.Coord { return selected(g) }

// selected resolves a store's selection through CellCoord and ColumnCoords.
// Unresolvable selections match nothing.
func selected(s Store) []grid.Coord {
	var out []grid.Coord
	sel := s.Selection()
	if sel.Cell != nil {
		if c, err := s.CellCoord(*sel.Cell); err == nil {
			out = append(out, c)
		}
	}
	if sel.Column != nil {
		cs, _ := s.ColumnCoords(*sel.Column)
		for _, c := range cs {
			if !containsCoord(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func containsCoord(cs []grid.Coord, c grid.Coord) bool {
	for _, o := range cs {
		if o == c {
			return true
		}
	}
	return false
}
