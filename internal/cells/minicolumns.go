package cells

import (
	"github.com/san-kum/cellviz/internal/grid"
)

// MiniColumns holds numColumns columns of cellsPerColumn cells. Columns are
// laid out cellsPerRow to a row; each column stacks its cells along z. The
// last row may be short, leaving addresses with no cell.
type MiniColumns struct {
	numColumns     int
	cellsPerColumn int
	cellsPerRow    int
	cells          []Value
	sel            Selection
}

// NewMiniColumns returns columns with every cell tagged by column and cell
// index. cellsPerRow below 1 is treated as 1.
func NewMiniColumns(numColumns, cellsPerColumn, cellsPerRow int) *MiniColumns {
	if cellsPerRow < 1 {
		cellsPerRow = 1
	}
	m := &MiniColumns{
		numColumns:     numColumns,
		cellsPerColumn: cellsPerColumn,
		cellsPerRow:    cellsPerRow,
		cells:          make([]Value, numColumns*cellsPerColumn),
	}
	for col := 0; col < numColumns; col++ {
		for cell := 0; cell < cellsPerColumn; cell++ {
			m.cells[col*cellsPerColumn+cell] = Value{ColumnIndex: col, CellIndex: cell}
		}
	}
	return m
}

func (m *MiniColumns) NumColumns() int       { return m.numColumns }
func (m *MiniColumns) CellsPerColumn() int   { return m.cellsPerColumn }
func (m *MiniColumns) CellsPerRow() int      { return m.cellsPerRow }
func (m *MiniColumns) Selection() *Selection { return &m.sel }

func (m *MiniColumns) Dims() grid.Dims {
	return grid.Dims{
		X: m.cellsPerRow,
		Y: (m.numColumns + m.cellsPerRow - 1) / m.cellsPerRow,
		Z: m.cellsPerColumn,
	}
}

// Redim changes how many columns share a row. Cell values are kept.
func (m *MiniColumns) Redim(cellsPerRow int) {
	if cellsPerRow < 1 {
		cellsPerRow = 1
	}
	m.cellsPerRow = cellsPerRow
}

func (m *MiniColumns) checkCell(column, cell int) error {
	if column < 0 || column >= m.numColumns {
		return &grid.OutOfBoundsError{Axis: "column", Value: column, Max: m.numColumns}
	}
	if cell < 0 || cell >= m.cellsPerColumn {
		return &grid.OutOfBoundsError{Axis: "cell", Value: cell, Max: m.cellsPerColumn}
	}
	return nil
}

// Column returns a copy of the cells of one column.
func (m *MiniColumns) Column(column int) ([]Value, error) {
	if column < 0 || column >= m.numColumns {
		return nil, &grid.OutOfBoundsError{Axis: "column", Value: column, Max: m.numColumns}
	}
	start := column * m.cellsPerColumn
	return append([]Value(nil), m.cells[start:start+m.cellsPerColumn]...), nil
}

// CellIndex is the global index of a cell: column*cellsPerColumn + cell.
func (m *MiniColumns) CellIndex(column, cell int) int {
	return column*m.cellsPerColumn + cell
}

// Cell returns a cell by global index.
func (m *MiniColumns) Cell(index int) (Value, error) {
	if index < 0 || index >= len(m.cells) {
		return Value{}, &grid.OutOfBoundsError{Axis: "index", Value: index, Max: len(m.cells)}
	}
	return m.cells[index], nil
}

// CellsInColumn lists the addresses of one column's cells.
func (m *MiniColumns) CellsInColumn(column int) ([]grid.Coord, error) {
	out := make([]grid.Coord, 0, m.cellsPerColumn)
	for cell := 0; cell < m.cellsPerColumn; cell++ {
		c, err := m.CellXyz(column, cell)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CellXyz maps a column and cell to a grid address.
func (m *MiniColumns) CellXyz(column, cell int) (grid.Coord, error) {
	if err := m.checkCell(column, cell); err != nil {
		return grid.Coord{}, err
	}
	return grid.Coord{X: column % m.cellsPerRow, Y: column / m.cellsPerRow, Z: cell}, nil
}

// Locate is the inverse of CellXyz.
func (m *MiniColumns) Locate(c grid.Coord) (column, cell int, err error) {
	if err := m.Dims().Check(c); err != nil {
		return 0, 0, err
	}
	column = grid.ColumnIndex(c.X, c.Y, m.cellsPerRow)
	if err := m.checkCell(column, c.Z); err != nil {
		return 0, 0, err
	}
	return column, c.Z, nil
}

func (m *MiniColumns) Get(c grid.Coord) (Value, error) {
	col, cell, err := m.Locate(c)
	if err != nil {
		return Value{}, err
	}
	return m.cells[m.CellIndex(col, cell)], nil
}

func (m *MiniColumns) CellValue(c grid.Coord) (Value, bool) {
	v, err := m.Get(c)
	return v, err == nil
}

func (m *MiniColumns) Update(c grid.Coord, p Patch, opts UpdateOptions) error {
	col, cell, err := m.Locate(c)
	if err != nil {
		return err
	}
	return m.UpdateCell(col, cell, p, opts)
}

// UpdateCell addresses a cell the way the simulation does.
func (m *MiniColumns) UpdateCell(column, cell int, p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if err := m.checkCell(column, cell); err != nil {
		return err
	}
	p.apply(&m.cells[m.CellIndex(column, cell)], opts)
	return nil
}

// UpdateColumn applies p to every cell of a column.
func (m *MiniColumns) UpdateColumn(column int, p Patch, opts UpdateOptions) error {
	for cell := 0; cell < m.cellsPerColumn; cell++ {
		if err := m.UpdateCell(column, cell, p, opts); err != nil {
			return err
		}
	}
	return nil
}

func (m *MiniColumns) UpdateAll(p Patch, opts UpdateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	for i := range m.cells {
		p.apply(&m.cells[i], opts)
	}
	return nil
}

func (m *MiniColumns) PeekUpdate(c grid.Coord, fn func(Value, func(Patch))) error {
	col, cell, err := m.Locate(c)
	if err != nil {
		return err
	}
	i := m.CellIndex(col, cell)
	fn(m.cells[i], func(p Patch) { p.apply(&m.cells[i], UpdateOptions{}) })
	return nil
}

// PeekUpdateAll skips addresses past the last column.
func (m *MiniColumns) PeekUpdateAll(fn func(Value, grid.Coord, func(Patch))) error {
	var err error
	m.Dims().Each(func(c grid.Coord) {
		if err != nil {
			return
		}
		if _, ok := m.CellValue(c); !ok {
			return
		}
		err = m.PeekUpdate(c, func(v Value, apply func(Patch)) { fn(v, c, apply) })
	})
	return err
}

// CellCoord maps a global cell index to its address.
func (m *MiniColumns) CellCoord(index int) (grid.Coord, error) {
	if index < 0 || index >= len(m.cells) {
		return grid.Coord{}, &grid.OutOfBoundsError{Axis: "index", Value: index, Max: len(m.cells)}
	}
	return m.CellXyz(index/m.cellsPerColumn, index%m.cellsPerColumn)
}

func (m *MiniColumns) ColumnCoords(column int) ([]grid.Coord, error) {
	return m.CellsInColumn(column)
}

func (m *MiniColumns) Selected() []grid.Coord { return selected(m) }
