package scene

import (
	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/grid"
)

// Geometry is the primitive a mesh draws.
type Geometry int

const (
	Box Geometry = iota
	Sphere
)

func (g Geometry) String() string {
	if g == Sphere {
		return "sphere"
	}
	return "box"
}

// ParseGeometry accepts "cube", "box" or "sphere".
func ParseGeometry(s string) (Geometry, bool) {
	switch s {
	case "", "cube", "box":
		return Box, true
	case "sphere":
		return Sphere, true
	}
	return Box, false
}

// Side selects which faces a material draws.
type Side int

const (
	FrontSide Side = iota
	BackSide
)

// AlphaTest is the opacity below which fragments are discarded.
const AlphaTest = 0.15

// Material holds the visual properties of a mesh.
type Material struct {
	Color       cells.Color
	Opacity     float64
	Transparent bool
	Side        Side
	Wireframe   bool
}

// CellData ties a mesh back to the cell it draws.
type CellData struct {
	Type  string
	Coord grid.Coord
	Index int
}

// Mesh is one renderable primitive.
type Mesh struct {
	Geometry Geometry
	Size     float64
	Position grid.Vec3
	Scale    float64
	Material Material
	// Edges draws a wireframe outline on top of the faces.
	Edges bool
	Label string
	Data  CellData
	Name  string

	parent *Group
}

// NewMesh returns an opaque mesh with unit scale.
func NewMesh(g Geometry, size float64, color cells.Color) *Mesh {
	return &Mesh{
		Geometry: g,
		Size:     size,
		Scale:    1,
		Material: Material{Color: color, Opacity: 1, Transparent: true},
	}
}

// Clone copies geometry and material; the clone has no parent.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.parent = nil
	return &c
}

// Visible reports whether the material passes the alpha test.
func (m *Mesh) Visible() bool { return m.Material.Opacity >= AlphaTest }

// HalfExtent is half the edge length after scaling.
func (m *Mesh) HalfExtent() float64 { return m.Size * m.Scale / 2 }

// Line is a segment between two world points, shaded from Color at From
// to EndColor at To.
type Line struct {
	From, To grid.Vec3
	Color    cells.Color
	EndColor cells.Color
	Name     string

	parent *Group
}
