package render

import (
	"fmt"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/scene"
)

// Hooks let a layout decorate the base mesh pass.
type Hooks struct {
	// BeforeApply runs once before ApplyMeshCells touches any mesh.
	BeforeApply func()
	// MutateCube runs per cell after color and position are set, on both
	// create and apply.
	MutateCube func(m *scene.Mesh, v cells.Value, at grid.Coord)
}

// GridRenderer creates and updates the meshes of cell stores on a surface.
type GridRenderer struct {
	Surface *Surface
	Options Options
	Hooks   Hooks
}

func NewGridRenderer(s *Surface, opts Options) *GridRenderer {
	return &GridRenderer{Surface: s, Options: opts.WithDefaults(opts.LayerSpacing)}
}

// WithSpacing returns a renderer sharing the surface and hooks but laying
// cells out with a different spacing.
func (r *GridRenderer) WithSpacing(sp grid.Spacing) *GridRenderer {
	c := *r
	c.Options.Spacing = sp
	return &c
}

// OffsetCenter is grid.OffsetCenterPosition with this renderer's layout.
func (r *GridRenderer) OffsetCenter(d grid.Dims) grid.Vec3 {
	return grid.OffsetCenterPosition(d, r.Options.CubeSize, r.Options.Spacing, r.Options.Offset)
}

func (r *GridRenderer) position(origin grid.Vec3, at grid.Coord) grid.Vec3 {
	return grid.CellPosition(origin, at, r.Options.CubeSize, r.Options.Spacing)
}

// ResolveColor picks a cell's color: its own color when set, otherwise the
// color of its state. A color written by a patch wins even when it is black.
func (r *GridRenderer) ResolveColor(v cells.Value) (cells.Color, error) {
	if v.ColorSet || v.Color != (cells.Color{}) || v.State == "" {
		return v.Color, nil
	}
	if c, ok := r.Options.Colors[string(v.State)]; ok {
		return c, nil
	}
	info, err := cells.LookupState(v.State)
	if err != nil {
		return cells.Color{}, err
	}
	return info.Color, nil
}

// CreateMeshCells builds one mesh per present cell of store, adds it to
// group and registers it for picking. Call once per store instance.
func (r *GridRenderer) CreateMeshCells(store cells.Store, group *scene.Group, origin grid.Vec3, typeLabel string) (*MeshCache, error) {
	d := store.Dims()
	cache := newMeshCache(d, group, typeLabel)
	var err error
	d.Each(func(at grid.Coord) {
		if err != nil {
			return
		}
		v, ok := store.CellValue(at)
		if !ok {
			return
		}
		color, cerr := r.ResolveColor(v)
		if cerr != nil {
			err = fmt.Errorf("create %s %v: %w", typeLabel, at, cerr)
			return
		}
		m := scene.NewMesh(r.Options.Geometry, r.Options.CubeSize, color)
		m.Position = r.position(origin, at)
		m.Data = scene.CellData{Type: typeLabel, Coord: at, Index: v.CellIndex}
		if r.Hooks.MutateCube != nil {
			r.Hooks.MutateCube(m, v, at)
		}
		group.AddMesh(m)
		cache.set(at, m)
		r.Surface.AddTarget(m)
	})
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("mesh cells created", "type", typeLabel, "count", cache.Len(), "dims", d)
	return cache, nil
}

// ApplyMeshCells copies current cell colors and positions onto the cached
// meshes. It never allocates a mesh.
func (r *GridRenderer) ApplyMeshCells(store cells.Store, cache *MeshCache, origin grid.Vec3) error {
	if store.Dims() != cache.Dims() {
		return fmt.Errorf("%w: store %v, cache %v", ErrShapeMismatch, store.Dims(), cache.Dims())
	}
	if r.Hooks.BeforeApply != nil {
		r.Hooks.BeforeApply()
	}
	var err error
	cache.dims.Each(func(at grid.Coord) {
		if err != nil {
			return
		}
		v, ok := store.CellValue(at)
		if !ok {
			return
		}
		m, ok := cache.At(at)
		if !ok {
			err = fmt.Errorf("%w: no mesh at %v", ErrShapeMismatch, at)
			return
		}
		color, cerr := r.ResolveColor(v)
		if cerr != nil {
			err = fmt.Errorf("apply %s %v: %w", cache.Type, at, cerr)
			return
		}
		m.Material.Color = color
		m.Position = r.position(origin, at)
		if r.Hooks.MutateCube != nil {
			r.Hooks.MutateCube(m, v, at)
		}
	})
	return err
}

// DropMeshCells removes a cache's meshes from its group and from the
// pick targets.
func (r *GridRenderer) DropMeshCells(cache *MeshCache) {
	gone := make(map[*scene.Mesh]bool, cache.Len())
	cache.Each(func(_ grid.Coord, m *scene.Mesh) {
		gone[m] = true
		cache.Group.RemoveMesh(m)
	})
	r.Surface.DropTargets(gone)
}
