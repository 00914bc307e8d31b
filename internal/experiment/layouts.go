package experiment

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/htm"
	"github.com/san-kum/cellviz/internal/layers"
	"github.com/san-kum/cellviz/internal/render"
)

// statePatch sets a state and clears the cell's own color, so the color
// comes from the configured table or the state defaults.
func statePatch(s cells.State) cells.Patch {
	return cells.Patch{}.WithState(s).WithColor(cells.Color{})
}

func selectColumn(s cells.Store, sel *htm.Selected) {
	s.Selection().Clear()
	if sel != nil {
		s.Selection().SelectColumn(sel.ColumnIndex)
	}
}

// activeCell is the cell that fires in an active column. The pooler has no
// temporal memory, so it is fixed per column.
func activeCell(column, cellsPerColumn int) int { return column % cellsPerColumn }

func newSingle(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	X, Y := cfg.Columns.Dims[0], cfg.Columns.Dims[1]
	store := cells.NewGrid(X, Y, cfg.Columns.CellsPerColumn)
	if err := store.UpdateAll(statePatch(cells.Inactive), cells.UpdateOptions{}); err != nil {
		return nil, err
	}
	vis := layers.NewSingleLayer(store, opts, b)
	if err := vis.Render(); err != nil {
		return nil, err
	}
	apply := func(d htm.Data, sel *htm.Selected) error {
		err := store.PeekUpdateAll(func(_ cells.Value, c grid.Coord, set func(cells.Patch)) {
			s := cells.Inactive
			if d.ActiveColumns[grid.ColumnIndex(c.X, c.Y, X)] == 1 {
				s = cells.Active
			}
			set(statePatch(s))
		})
		if err != nil {
			return err
		}
		selectColumn(store, sel)
		return vis.Redraw()
	}
	return &Layout{Vis: vis, Stores: []cells.Store{store}, apply: apply}, nil
}

// paintColumns marks every cell of an active column and its firing cell.
func paintColumns(m *cells.MiniColumns, active []int) error {
	if err := m.UpdateAll(statePatch(cells.Inactive), cells.UpdateOptions{}); err != nil {
		return err
	}
	for _, col := range active {
		if col >= m.NumColumns() {
			continue
		}
		if err := m.UpdateColumn(col, statePatch(cells.WithinActiveColumn), cells.UpdateOptions{}); err != nil {
			return err
		}
		if err := m.UpdateCell(col, activeCell(col, m.CellsPerColumn()), statePatch(cells.Active), cells.UpdateOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func newMiniColumns(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	store := cells.NewMiniColumns(cfg.NumColumns(), cfg.Columns.CellsPerColumn, cfg.Columns.CellsPerRow)
	if err := paintColumns(store, nil); err != nil {
		return nil, err
	}
	vis := layers.NewSingleLayer(store, opts, b)
	if err := vis.Render(); err != nil {
		return nil, err
	}
	apply := func(d htm.Data, sel *htm.Selected) error {
		if err := paintColumns(store, d.ActiveColumns.ActiveBits()); err != nil {
			return err
		}
		selectColumn(store, sel)
		return vis.Redraw()
	}
	return &Layout{Vis: vis, Stores: []cells.Store{store}, apply: apply}, nil
}

func newSpToInput(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	v, err := htm.NewViz(cfg.Input.Dims, cfg.Columns.Dims, cfg.Columns.CellsPerColumn, opts, b)
	if err != nil {
		return nil, err
	}
	v.ShowNeighborhoods = true
	return &Layout{Vis: v.View(), Stores: []cells.Store{v.SP, v.Input}, apply: v.Update}, nil
}

// MaxProximal caps the proximal segments drawn for a selected column.
const MaxProximal = 64

func newCompleteHtm(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	input := cells.NewInputCells(cfg.NumInputs(), cfg.Input.Square)
	sp := cells.NewMiniColumns(cfg.NumColumns(), cfg.Columns.CellsPerColumn, cfg.Columns.CellsPerRow)
	if err := input.UpdateAll(statePatch(cells.Inactive), cells.UpdateOptions{}); err != nil {
		return nil, err
	}
	if err := paintColumns(sp, nil); err != nil {
		return nil, err
	}
	vis := layers.NewCompleteHtm(input, sp, opts, b)
	if err := vis.Render(); err != nil {
		return nil, err
	}
	apply := func(d htm.Data, sel *htm.Selected) error {
		for i, bit := range d.InputEncoding {
			if i >= input.Len() {
				break
			}
			s := cells.Inactive
			if bit == 1 {
				s = cells.Input
			}
			if err := input.UpdateBit(i, statePatch(s), cells.UpdateOptions{}); err != nil {
				return err
			}
		}
		active := d.ActiveColumns.ActiveBits()
		if err := paintColumns(sp, active); err != nil {
			return err
		}
		selectColumn(sp, sel)
		vis.SetSegments(distalChain(sp, active), proximalFor(d, sel))
		return vis.Redraw()
	}
	return &Layout{Vis: vis, Stores: []cells.Store{sp, input}, apply: apply}, nil
}

// distalChain links the firing cell of each active column to the next one.
func distalChain(m *cells.MiniColumns, active []int) []layers.Segment {
	var out []layers.Segment
	for i := 1; i < len(active); i++ {
		a, b := active[i-1], active[i]
		out = append(out, layers.Segment{
			Source:    m.CellIndex(a, activeCell(a, m.CellsPerColumn())),
			Target:    m.CellIndex(b, activeCell(b, m.CellsPerColumn())),
			Connected: true,
		})
	}
	return out
}

// proximalFor connects the selected column to the active bits of its pool.
func proximalFor(d htm.Data, sel *htm.Selected) []layers.Segment {
	if sel == nil || sel.ColumnIndex >= len(d.PotentialPools) {
		return nil
	}
	var out []layers.Segment
	for _, bit := range d.PotentialPools[sel.ColumnIndex] {
		if bit < len(d.InputEncoding) && d.InputEncoding[bit] == 1 {
			out = append(out, layers.Segment{Source: sel.ColumnIndex, Target: bit, Connected: true})
		}
		if len(out) == MaxProximal {
			break
		}
	}
	return out
}

func newDyson(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error) {
	X, Y := cfg.Columns.Dims[0], cfg.Columns.Dims[1]
	store := cells.NewLayers(cfg.Columns.CellsPerColumn, X, Y)
	vis := layers.NewDyson(store, opts, b)
	if err := vis.Render(); err != nil {
		return nil, err
	}
	apply := func(d htm.Data, sel *htm.Selected) error {
		for col, bit := range d.ActiveColumns {
			v := bit
			if sel != nil && sel.ColumnIndex == col {
				v = 2
			}
			for l := 0; l < cfg.Columns.CellsPerColumn; l++ {
				if err := store.Set(l, col%X, col/X, v); err != nil {
					return err
				}
			}
		}
		return vis.Redraw()
	}
	return &Layout{Vis: vis, apply: apply}, nil
}
