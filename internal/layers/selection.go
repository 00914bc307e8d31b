package layers

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/scene"
)

// Outline look for selected cells.
var (
	OutlineColor = cells.MustColor("#00ff00")
	OutlineScale = 1.15
)

// outlines tracks the highlight meshes of one store. reset removes every
// outline and snapshots the store's selection; mutate then adds one
// outline per selected cell as meshes are visited.
type outlines struct {
	store    cells.Store
	group    *scene.Group
	selected map[grid.Coord]bool
}

func newOutlines(sc *scene.Scene, store cells.Store, label string) *outlines {
	o := &outlines{store: store, group: scene.NewGroup(label + "-selection")}
	sc.Add(o.group)
	return o
}

func (o *outlines) reset() {
	for _, m := range append([]*scene.Mesh(nil), o.group.Meshes...) {
		o.group.RemoveMesh(m)
	}
	o.selected = make(map[grid.Coord]bool)
	for _, c := range o.store.Selected() {
		o.selected[c] = true
	}
}

func (o *outlines) mutate(m *scene.Mesh, _ cells.Value, at grid.Coord) {
	if !o.selected[at] {
		return
	}
	outline := m.Clone()
	outline.Scale = OutlineScale
	outline.Material = scene.Material{Color: OutlineColor, Opacity: 1, Side: scene.BackSide}
	outline.Edges = false
	outline.Label = ""
	outline.Name = "outline"
	o.group.AddMesh(outline)
}

func (o *outlines) count() int { return len(o.group.Meshes) }
