package scene

import (
	"math"

	"github.com/san-kum/cellviz/internal/grid"
)

// Fly control defaults.
const (
	DefaultMovementSpeed = 1000.0
	DefaultRollSpeed     = math.Pi / 24
)

// MoveState is the set of movement inputs currently held.
type MoveState struct {
	Forward, Back float64
	Left, Right   float64
	Up, Down      float64
	PitchUp       float64
	PitchDown     float64
	YawLeft       float64
	YawRight      float64
	RollLeft      float64
	RollRight     float64
}

// FlyControls moves a camera freely: translation along its local axes and
// rotation about them, scaled by elapsed time.
type FlyControls struct {
	Camera        *Camera
	MovementSpeed float64
	RollSpeed     float64
	State         MoveState
}

func NewFlyControls(c *Camera) *FlyControls {
	return &FlyControls{Camera: c, MovementSpeed: DefaultMovementSpeed, RollSpeed: DefaultRollSpeed}
}

// Update advances the camera by delta seconds of the current MoveState.
func (f *FlyControls) Update(delta float64) {
	c := f.Camera
	s := f.State
	move := delta * f.MovementSpeed
	rot := delta * f.RollSpeed

	right := c.Right()
	v := c.Forward.Scale(s.Forward - s.Back).
		Add(right.Scale(s.Right - s.Left)).
		Add(c.Up.Scale(s.Up - s.Down))
	c.Position = c.Position.Add(v.Scale(move))

	if yaw := (s.YawLeft - s.YawRight) * rot; yaw != 0 {
		c.Forward = rotate(c.Forward, c.Up, yaw)
	}
	if pitch := (s.PitchUp - s.PitchDown) * rot; pitch != 0 {
		c.Forward = rotate(c.Forward, right, pitch)
		c.Up = rotate(c.Up, right, pitch)
	}
	if roll := (s.RollLeft - s.RollRight) * rot; roll != 0 {
		c.Up = rotate(c.Up, c.Forward, -roll)
	}
	c.Forward = c.Forward.Normalize()
	c.Up = c.Up.Normalize()
}

// rotate turns v about unit axis k by angle a (Rodrigues).
func rotate(v, k grid.Vec3, a float64) grid.Vec3 {
	k = k.Normalize()
	cos, sin := math.Cos(a), math.Sin(a)
	return v.Scale(cos).
		Add(k.Cross(v).Scale(sin)).
		Add(k.Scale(k.Dot(v) * (1 - cos)))
}
