package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/htm"
	"github.com/san-kum/cellviz/internal/layers"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// Layout is a rendered visualization together with the code that paints
// pooler state onto its stores.
type Layout struct {
	Name string
	Vis  layers.Visualization
	// Stores lists the layout's cell stores, SP first.
	Stores []cells.Store

	apply    func(d htm.Data, sel *htm.Selected) error
	columnsX int
}

// Apply paints one pooler step and redraws.
func (l *Layout) Apply(d htm.Data, sel *htm.Selected) error {
	if err := l.apply(d, sel); err != nil {
		return fmt.Errorf("layout %s: %w", l.Name, err)
	}
	return nil
}

// ColumnAt maps a picked mesh to the column it belongs to. Input bits
// belong to no column.
func (l *Layout) ColumnAt(d scene.CellData) (int, bool) {
	switch d.Type {
	case layers.TypeNeuron:
		return d.Index, true
	case layers.TypeInput, "":
		return 0, false
	}
	if len(l.Stores) > 0 {
		if m, ok := l.Stores[0].(*cells.MiniColumns); ok {
			col, _, err := m.Locate(d.Coord)
			return col, err == nil
		}
	}
	if l.columnsX <= 0 {
		return 0, false
	}
	return grid.ColumnIndex(d.Coord.X, d.Coord.Y, l.columnsX), true
}

// LayoutFunc builds and renders a layout.
type LayoutFunc func(cfg *config.Config, opts render.Options, b render.Backend) (*Layout, error)

type Registry struct {
	layouts map[string]LayoutFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts: make(map[string]LayoutFunc),
	}

	r.layouts["single"] = newSingle
	r.layouts["minicolumns"] = newMiniColumns
	r.layouts["sp-to-input"] = newSpToInput
	r.layouts["complete-htm"] = newCompleteHtm
	r.layouts["highbrow-layer"] = newHighbrowLayer
	r.layouts["dyson"] = newDyson

	return r
}

// Register adds or replaces a layout.
func (r *Registry) Register(name string, fn LayoutFunc) {
	r.layouts[name] = fn
}

// Build creates the layout cfg.Layout names on backend b.
func (r *Registry) Build(cfg *config.Config, b render.Backend) (*Layout, error) {
	fn, ok := r.layouts[cfg.Layout]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", cfg.Layout)
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	l, err := fn(cfg, opts, b)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", cfg.Layout, err)
	}
	l.Name = cfg.Layout
	l.columnsX = cfg.Columns.Dims[0]
	return l, nil
}

func (r *Registry) ListLayouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
