package scene

import (
	"math"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
)

// Background is the default clear color.
var Background = cells.MustColor("#f0f0f0")

// PointLight is an omnidirectional light.
type PointLight struct {
	Position grid.Vec3
	Color    cells.Color
}

// Scene is the root of a scene graph.
type Scene struct {
	Root       *Group
	Light      *PointLight
	Background cells.Color
}

func New() *Scene {
	return &Scene{
		Root:       NewGroup("root"),
		Light:      &PointLight{Color: cells.MustColor("#ffffff")},
		Background: Background,
	}
}

func (s *Scene) Add(g *Group)         { s.Root.AddGroup(g) }
func (s *Scene) Remove(g *Group) bool { return s.Root.RemoveGroup(g) }
func (s *Scene) AddMesh(m *Mesh)      { s.Root.AddMesh(m) }
func (s *Scene) RemoveMesh(m *Mesh)   { s.Root.RemoveMesh(m) }

// NewLine returns a line of a single color.
func NewLine(from, to grid.Vec3, c cells.Color) *Line {
	return &Line{From: from, To: to, Color: c, EndColor: c}
}

// Ray is a half line used for picking.
type Ray struct {
	Origin grid.Vec3
	Dir    grid.Vec3
}

// Intersect returns the distance along r to the axis-aligned bounds of m.
func (r Ray) Intersect(m *Mesh) (float64, bool) {
	h := m.HalfExtent()
	lo := m.Position.Sub(grid.Vec3{X: h, Y: h, Z: h})
	hi := m.Position.Add(grid.Vec3{X: h, Y: h, Z: h})
	tmin, tmax := math.Inf(-1), math.Inf(1)
	axes := [3][4]float64{
		{r.Origin.X, r.Dir.X, lo.X, hi.X},
		{r.Origin.Y, r.Dir.Y, lo.Y, hi.Y},
		{r.Origin.Z, r.Dir.Z, lo.Z, hi.Z},
	}
	for _, a := range axes {
		o, d, l, u := a[0], a[1], a[2], a[3]
		if d == 0 {
			if o < l || o > u {
				return 0, false
			}
			continue
		}
		t1, t2 := (l-o)/d, (u-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the nearest visible target hit by r.
func Pick(r Ray, targets []*Mesh) (*Mesh, bool) {
	var best *Mesh
	bestT := math.Inf(1)
	for _, m := range targets {
		if !m.Visible() {
			continue
		}
		if t, ok := r.Intersect(m); ok && t < bestT {
			best, bestT = m, t
		}
	}
	return best, best != nil
}
