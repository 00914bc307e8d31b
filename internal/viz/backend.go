package viz

import (
	"sync"
	"sync/atomic"

	"github.com/san-kum/cellviz/internal/scene"
)

// Terminal is a render.Backend that rasterizes scenes onto a braille
// canvas. Sizes given to Resize are in dots, two per column and four per
// row.
type Terminal struct {
	mu     sync.Mutex
	canvas *Canvas
	fps    int
	frames int
	closed atomic.Bool
}

func NewTerminal(cols, rows, fps int) *Terminal {
	return &Terminal{canvas: NewCanvas(cols, rows), fps: fps}
}

func (t *Terminal) Draw(s *scene.Scene, cam *scene.Camera) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	Rasterize(t.canvas, s, cam)
	t.frames++
	return nil
}

func (t *Terminal) Resize(w, h int) {
	cols, rows := (w+1)/2, (h+3)/4
	t.mu.Lock()
	defer t.mu.Unlock()
	if cols == t.canvas.Width && rows == t.canvas.Height {
		return
	}
	t.canvas = NewCanvas(max(cols, 1), max(rows, 1))
}

func (t *Terminal) Closed() bool     { return t.closed.Load() }
func (t *Terminal) RefreshRate() int { return t.fps }

// Close makes Closed report true.
func (t *Terminal) Close() { t.closed.Store(true) }

// Frame renders the last drawn frame in color.
func (t *Terminal) Frame() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canvas.Render()
}

// Frames counts draws.
func (t *Terminal) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Snapshot returns a copy of the canvas.
func (t *Terminal) Snapshot() *Canvas {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := NewCanvas(t.canvas.Width, t.canvas.Height)
	for i := range c.Grid {
		copy(c.Grid[i], t.canvas.Grid[i])
		copy(c.colors[i], t.canvas.colors[i])
		copy(c.depths[i], t.canvas.depths[i])
	}
	return c
}
