package render

import (
	"time"

	"github.com/san-kum/cellviz/internal/scene"
)

// Backend draws a scene. Implementations live in internal/gui (raylib) and
// internal/viz (terminal).
type Backend interface {
	Draw(s *scene.Scene, cam *scene.Camera) error
	Resize(w, h int)
	// Closed reports that the user closed the window or quit.
	Closed() bool
	// RefreshRate is the target frames per second.
	RefreshRate() int
}

// Clock measures time between frames.
type Clock interface {
	// Delta returns seconds since the previous call.
	Delta() float64
}

type wallClock struct {
	last time.Time
}

// NewClock returns a Clock backed by the wall clock.
func NewClock() Clock { return &wallClock{last: time.Now()} }

func (c *wallClock) Delta() float64 {
	now := time.Now()
	d := now.Sub(c.last).Seconds()
	c.last = now
	return d
}

// Headless is a Backend that only counts frames. Tests and exporters use it.
type Headless struct {
	Frames int
	Width  int
	Height int
	FPS    int
	Quit   bool
	// OnDraw, when set, is called for every frame.
	OnDraw func(s *scene.Scene, cam *scene.Camera)
}

func (h *Headless) Draw(s *scene.Scene, cam *scene.Camera) error {
	h.Frames++
	if h.OnDraw != nil {
		h.OnDraw(s, cam)
	}
	return nil
}

func (h *Headless) Resize(w, ht int) { h.Width, h.Height = w, ht }
func (h *Headless) Closed() bool     { return h.Quit }

func (h *Headless) RefreshRate() int {
	if h.FPS <= 0 {
		return 60
	}
	return h.FPS
}
