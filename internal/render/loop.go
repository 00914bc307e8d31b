package render

import (
	"context"
	"time"
)

// Loop drives a surface once per frame.
type Loop struct {
	Surface *Surface
	Clock   Clock
	// BeforeFrame, when set, runs on the loop goroutine ahead of each step.
	// Hosts use it to feed new cell data and redraw.
	BeforeFrame func() error
}

func NewLoop(s *Surface) *Loop {
	return &Loop{Surface: s, Clock: NewClock()}
}

// Step advances controls by delta seconds and renders one frame.
func (l *Loop) Step(delta float64) error {
	l.Surface.Controls.Update(delta)
	return l.Surface.Render()
}

// Run steps at the backend refresh rate until ctx is done or the backend
// is closed. A closed backend is a normal exit.
func (l *Loop) Run(ctx context.Context) error {
	fps := l.Surface.Backend.RefreshRate()
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Surface.Backend.Closed() {
				return nil
			}
			if l.BeforeFrame != nil {
				if err := l.BeforeFrame(); err != nil {
					return err
				}
			}
			if err := l.Step(l.Clock.Delta()); err != nil {
				return err
			}
		}
	}
}
