package scene

import (
	"math"

	"github.com/san-kum/cellviz/internal/grid"
)

// Default camera frustum.
const (
	DefaultFOV  = 25.0
	DefaultNear = 50.0
	DefaultFar  = 1e7
)

// Camera is a perspective camera described by a position and an
// orthonormal forward/up basis.
type Camera struct {
	Position grid.Vec3
	Forward  grid.Vec3
	Up       grid.Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera(aspect float64) *Camera {
	return &Camera{
		Forward: grid.Vec3{Z: -1},
		Up:      grid.Vec3{Y: 1},
		FOV:     DefaultFOV,
		Aspect:  aspect,
		Near:    DefaultNear,
		Far:     DefaultFar,
	}
}

// Right is the camera's local +X axis.
func (c *Camera) Right() grid.Vec3 { return c.Forward.Cross(c.Up).Normalize() }

// LookAt turns the camera toward target, keeping Up as close to world +Y
// as possible.
func (c *Camera) LookAt(target grid.Vec3) {
	f := target.Sub(c.Position).Normalize()
	if f == (grid.Vec3{}) {
		return
	}
	up := grid.Vec3{Y: 1}
	if math.Abs(f.Dot(up)) > 0.999 {
		up = grid.Vec3{Z: -1}
	}
	r := f.Cross(up).Normalize()
	c.Forward = f
	c.Up = r.Cross(f).Normalize()
}

// SetAspect updates the projection after a resize.
func (c *Camera) SetAspect(w, h int) {
	if h > 0 {
		c.Aspect = float64(w) / float64(h)
	}
}

func (c *Camera) tanHalfFOV() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

// Project maps p to screen coordinates for a w by h viewport. depth is the
// distance along the view axis; ok is false outside the frustum depth.
func (c *Camera) Project(p grid.Vec3, w, h int) (sx, sy, depth float64, ok bool) {
	d := p.Sub(c.Position)
	depth = d.Dot(c.Forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	t := c.tanHalfFOV()
	ndcX := d.Dot(c.Right()) / (depth * t * c.Aspect)
	ndcY := d.Dot(c.Up) / (depth * t)
	sx = (ndcX + 1) / 2 * float64(w)
	sy = (1 - ndcY) / 2 * float64(h)
	return sx, sy, depth, true
}

// Ray returns the world ray through screen point (sx, sy).
func (c *Camera) Ray(sx, sy float64, w, h int) Ray {
	t := c.tanHalfFOV()
	ndcX := 2*sx/float64(w) - 1
	ndcY := 1 - 2*sy/float64(h)
	dir := c.Forward.
		Add(c.Right().Scale(ndcX * t * c.Aspect)).
		Add(c.Up.Scale(ndcY * t))
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// Frame moves the camera back along +Z from center until a box of the given
// extent fills the view, then looks at center.
func (c *Camera) Frame(center grid.Vec3, extent float64) {
	dist := extent / (2 * c.tanHalfFOV()) * 1.2
	if dist < c.Near*2 {
		dist = c.Near * 2
	}
	c.Position = center.Add(grid.Vec3{Z: dist})
	c.LookAt(center)
}
