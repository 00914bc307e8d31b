package htm

import (
	"math"

	"github.com/san-kum/cellviz/internal/cells"
	"github.com/san-kum/cellviz/internal/sdrdraw"
)

// Colors used by Viz.Update.
type Colors struct {
	Inactive   cells.Color
	Active     cells.Color
	Selected   cells.Color
	Field      cells.Color
	Neighbors  cells.Color
	Input      cells.Color
	EmptyInput cells.Color
}

func DefaultColors() Colors {
	return Colors{
		Inactive:   cells.MustColor("#FFFEEE"),
		Active:     cells.MustColor("#FFF000"),
		Selected:   cells.MustColor("red"),
		Field:      cells.MustColor("orange"),
		Neighbors:  cells.MustColor("#1E90FF"),
		Input:      cells.MustColor("green"),
		EmptyInput: cells.MustColor("#F0FCEF"),
	}
}

var white = cells.MustColor("#FFFFFF")

// dutyColor places v between the smallest and largest duty cycle on a
// green to red scale. A flat distribution is all green.
func dutyColor(v float64, all []float64) cells.Color {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range all {
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	percent := 0.0
	if hi > lo {
		percent = (v - lo) / (hi - lo) * 100
	}
	return sdrdraw.GreenToRed(percent)
}
