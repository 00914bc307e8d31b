package layers

import (
	"math"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/scene"
)

// Visualization is a rendered layout.
type Visualization interface {
	// Render builds every mesh and draws the first frame. It may be called
	// once.
	Render() error
	// Redraw copies the current cell values onto the existing meshes.
	Redraw() error
	Surface() *render.Surface
	// Targets lists the pickable meshes.
	Targets() []*scene.Mesh
}

// Type labels carried by meshes in scene.CellData.
const (
	TypeCells     = "cells"
	TypeSpColumns = "spColumns"
	TypeInput     = "inputCells"
	TypeNeuron    = "neuron"
)

// layer is one cell store drawn on a surface, with its selection outlines.
type layer struct {
	store    cells.Store
	label    string
	r        *render.GridRenderer
	group    *scene.Group
	cache    *render.MeshCache
	outlines *outlines
	origin   grid.Vec3
}

func newLayer(r *render.GridRenderer, store cells.Store, label string, spacing grid.Spacing) *layer {
	l := &layer{
		store:    store,
		label:    label,
		r:        r.WithSpacing(spacing),
		outlines: newOutlines(r.Surface.Scene, store, label),
	}
	l.r.Hooks = render.Hooks{
		BeforeApply: l.outlines.reset,
		MutateCube:  l.outlines.mutate,
	}
	return l
}

func (l *layer) offsetCenter() grid.Vec3 {
	return l.r.OffsetCenter(l.store.Dims())
}

func (l *layer) create(origin grid.Vec3) error {
	l.origin = origin
	l.outlines.reset()
	l.group = scene.NewGroup(l.label)
	cache, err := l.r.CreateMeshCells(l.store, l.group, origin, l.label)
	if err != nil {
		return err
	}
	l.cache = cache
	l.r.Surface.Scene.Add(l.group)
	return nil
}

func (l *layer) apply(origin grid.Vec3) error {
	l.origin = origin
	return l.r.ApplyMeshCells(l.store, l.cache, origin)
}

// rebuild throws away the meshes and creates them again, for stores whose
// shape changed.
func (l *layer) rebuild() error {
	if l.cache != nil {
		l.r.DropMeshCells(l.cache)
		l.r.Surface.Scene.Remove(l.group)
	}
	return l.create(l.origin)
}

// frameCamera points the camera at the meshes of the given caches. An
// explicit camera position in opts wins over the automatic framing.
func frameCamera(s *render.Surface, opts render.Options, meshes []*scene.Mesh) {
	if len(meshes) == 0 {
		if opts.Camera != nil {
			s.Camera.Position = *opts.Camera
		}
		return
	}
	lo := grid.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := grid.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, m := range meshes {
		p := m.Position
		lo = grid.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = grid.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	center := lo.Add(hi).Scale(0.5)
	if opts.Camera != nil {
		s.Camera.Position = *opts.Camera
		s.Camera.LookAt(center)
		return
	}
	span := hi.Sub(lo)
	extent := math.Max(span.X, math.Max(span.Y, span.Z)) + opts.CubeSize
	s.Camera.Frame(center.Add(grid.Vec3{Z: span.Z / 2}), extent)
	s.Camera.LookAt(center)
}

func cacheMeshes(caches ...*render.MeshCache) []*scene.Mesh {
	var out []*scene.Mesh
	for _, c := range caches {
		if c == nil {
			continue
		}
		c.Each(func(_ grid.Coord, m *scene.Mesh) { out = append(out, m) })
	}
	return out
}

var (
	_ Visualization = (*SingleLayer)(nil)
	_ Visualization = (*SpToInput)(nil)
	_ Visualization = (*CompleteHtm)(nil)
	_ Visualization = (*HighbrowLayer)(nil)
	_ Visualization = (*HighbrowColumn)(nil)
	_ Visualization = (*Dyson)(nil)
)
