package htm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/layers"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/sdr"
)

// LayerSpacing separates the SP columns from their input, in cubes.
const LayerSpacing = 60

var ErrShape = errors.New("htm: data does not match the layout")

// Data is one step of spatial pooler state. Duty cycles and the pool and
// mask tables may be nil.
type Data struct {
	InputEncoding     sdr.SDR
	ActiveColumns     sdr.SDR
	ActiveDutyCycles  []float64
	OverlapDutyCycles []float64
	// PotentialPools lists, per column, the input bits it may connect to.
	PotentialPools [][]int
	// InhibitionMasks lists, per column, its neighbor columns.
	InhibitionMasks [][]int
}

// Selected picks the column whose receptive field and neighbors are shown.
type Selected struct {
	ColumnIndex int
}

// Viz draws input bits under SP columns. Input and SP cells are plain
// grids: the input is one cell deep, the SP is cellsPerColumn deep, and a
// column index is y*X + x in both.
type Viz struct {
	Input  *cells.Grid
	SP     *cells.Grid
	Colors Colors
	// ShowNeighborhoods colors the selected column's inhibition neighbors.
	ShowNeighborhoods bool

	view *layers.SpToInput
}

// NewViz builds the stores, clears them and renders the first frame.
func NewViz(inputDims, columnDims [2]int, cellsPerColumn int, opts render.Options, b render.Backend) (*Viz, error) {
	v := &Viz{
		Input:  cells.NewGrid(inputDims[0], inputDims[1], 1),
		SP:     cells.NewGrid(columnDims[0], columnDims[1], cellsPerColumn),
		Colors: DefaultColors(),
	}
	if err := v.ClearAllCells(); err != nil {
		return nil, err
	}
	opts.LayerSpacing = LayerSpacing
	v.view = layers.NewSpToInput(v.Input, v.SP, opts, b)
	if err := v.view.Render(); err != nil {
		return nil, err
	}
	return v, nil
}

// View is the underlying visualization.
func (v *Viz) View() *layers.SpToInput { return v.view }

func (v *Viz) ClearAllCells() error {
	if err := v.Input.UpdateAll(cells.SetColor(v.Colors.EmptyInput), cells.UpdateOptions{}); err != nil {
		return err
	}
	return v.SP.UpdateAll(cells.SetColor(v.Colors.Inactive), cells.UpdateOptions{})
}

func (v *Viz) numColumns() int {
	d := v.SP.Dims()
	return d.X * d.Y
}

func (v *Viz) check(d Data, sel *Selected) error {
	in := v.Input.Dims()
	if len(d.InputEncoding) != in.X*in.Y {
		return fmt.Errorf("%w: input encoding has %d bits, want %d", ErrShape, len(d.InputEncoding), in.X*in.Y)
	}
	n := v.numColumns()
	if len(d.ActiveColumns) != n {
		return fmt.Errorf("%w: %d active column bits, want %d", ErrShape, len(d.ActiveColumns), n)
	}
	for name, dc := range map[string][]float64{"active": d.ActiveDutyCycles, "overlap": d.OverlapDutyCycles} {
		if dc != nil && len(dc) != n {
			return fmt.Errorf("%w: %d %s duty cycles, want %d", ErrShape, len(dc), name, n)
		}
	}
	if sel == nil {
		return nil
	}
	if sel.ColumnIndex < 0 || sel.ColumnIndex >= n {
		return &grid.OutOfBoundsError{Axis: "column", Value: sel.ColumnIndex, Max: n}
	}
	if sel.ColumnIndex >= len(d.PotentialPools) {
		return fmt.Errorf("%w: no potential pool for column %d", ErrShape, sel.ColumnIndex)
	}
	if v.ShowNeighborhoods && sel.ColumnIndex >= len(d.InhibitionMasks) {
		return fmt.Errorf("%w: no inhibition mask for column %d", ErrShape, sel.ColumnIndex)
	}
	return nil
}

// Update colors both layers from d and redraws. sel may be nil.
func (v *Viz) Update(d Data, sel *Selected) error {
	if err := v.check(d, sel); err != nil {
		return err
	}
	if err := v.colorInput(d, sel); err != nil {
		return err
	}
	if err := v.colorColumns(d, sel); err != nil {
		return err
	}
	logging.Logger().Debug("htm update", "active_columns", d.ActiveColumns.Population(), "input_bits", d.InputEncoding.Population())
	return v.view.Redraw()
}

func (v *Viz) colorInput(d Data, sel *Selected) error {
	var field []int
	if sel != nil {
		field = d.PotentialPools[sel.ColumnIndex]
	}
	X := v.Input.Dims().X
	return v.Input.PeekUpdateAll(func(_ cells.Value, c grid.Coord, apply func(cells.Patch)) {
		bit := grid.ColumnIndex(c.X, c.Y, X)
		on := d.InputEncoding[bit] == 1
		color := v.Colors.EmptyInput
		if on {
			color = v.Colors.Input
		}
		if slices.Contains(field, bit) {
			if on {
				color = cells.Average(color, v.Colors.Field)
			} else {
				color = v.Colors.Field
			}
		}
		apply(cells.SetColor(color))
	})
}

func (v *Viz) colorColumns(d Data, sel *Selected) error {
	var neighbors []int
	if sel != nil && v.ShowNeighborhoods {
		neighbors = d.InhibitionMasks[sel.ColumnIndex]
	}
	duty := d.ActiveDutyCycles
	if duty == nil {
		duty = d.OverlapDutyCycles
	}
	X := v.SP.Dims().X
	return v.SP.PeekUpdateAll(func(_ cells.Value, c grid.Coord, apply func(cells.Patch)) {
		col := grid.ColumnIndex(c.X, c.Y, X)
		active := d.ActiveColumns[col] == 1
		isSelected := sel != nil && sel.ColumnIndex == col
		isNeighbor := slices.Contains(neighbors, col)

		color := v.Colors.Inactive
		switch {
		case isSelected:
			color = v.Colors.Selected
		case duty != nil && (sel == nil || isNeighbor):
			color = dutyColor(duty[col], duty)
			if active {
				color = cells.Lerp(color, white, 0.75)
			}
		case duty != nil:
			// outside the selected neighborhood
		case isNeighbor && active:
			color = cells.Average(v.Colors.Active, v.Colors.Neighbors)
		case isNeighbor:
			color = v.Colors.Neighbors
		case active:
			color = v.Colors.Active
		}
		apply(cells.SetColor(color))
	})
}
