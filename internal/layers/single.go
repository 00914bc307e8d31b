package layers

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// SingleLayer draws one store with its origin at the world origin.
type SingleLayer struct {
	opts     render.Options
	surface  *render.Surface
	layer    *layer
	rendered bool
}

func NewSingleLayer(store cells.Store, opts render.Options, b render.Backend) *SingleLayer {
	opts = opts.WithDefaults(0)
	s := render.NewSurface(opts, b)
	r := render.NewGridRenderer(s, opts)
	return &SingleLayer{
		opts:    opts,
		surface: s,
		layer:   newLayer(r, store, TypeCells, opts.Spacing),
	}
}

func (v *SingleLayer) Render() error {
	if v.rendered {
		return render.ErrAlreadyRendered
	}
	if err := v.layer.create(grid.Vec3{}); err != nil {
		return err
	}
	v.rendered = true
	frameCamera(v.surface, v.opts, cacheMeshes(v.layer.cache))
	return v.surface.Render()
}

func (v *SingleLayer) Redraw() error {
	if !v.rendered {
		return render.ErrNotRendered
	}
	return v.layer.apply(v.layer.origin)
}

func (v *SingleLayer) Surface() *render.Surface { return v.surface }
func (v *SingleLayer) Targets() []*scene.Mesh   { return v.surface.Targets() }
func (v *SingleLayer) Cache() *render.MeshCache { return v.layer.cache }
func (v *SingleLayer) Store() cells.Store       { return v.layer.store }
func (v *SingleLayer) SelectionCount() int      { return v.layer.outlines.count() }
