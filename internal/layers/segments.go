package layers

import (
	"math"

	"github.com/san-kum/cellviz/internal/cells"
)

// Segment is a directed connection between two cells. For distal segments
// Source and Target are SP cell indices; for proximal segments Source is an
// SP column and Target an input bit.
type Segment struct {
	Source           int
	Target           int
	Connected        bool
	PredictiveTarget bool
}

// Segment line gradient parameters.
const (
	segmentSteps = 0.1
	segmentPhase = 1.5
)

// GradientColor is a point on a rainbow made of three phase-shifted sines
// centered on mid grey.
func GradientColor(i int, frequency, phase float64) cells.Color {
	const center, width = 128, 127
	ch := func(p float64) float64 {
		v := int(math.Sin(frequency*float64(i)+p)*width + center)
		return float64(v&0xff) / 255
	}
	return cells.Color{R: ch(phase), G: ch(phase + 2), B: ch(phase + 4)}
}

// segmentColors shades a two-vertex line.
func segmentColors() (from, to cells.Color) {
	const vertices = 2
	f := 1 / (segmentSteps * vertices)
	return GradientColor(0, f, segmentPhase), GradientColor(1, f, segmentPhase)
}
