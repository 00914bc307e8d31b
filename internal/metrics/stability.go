package metrics

import (
	"math"

	"github.com/san-kum/cellviz/internal/sdr"
)

// Stability is the share of SDRs whose sparsity stays within tolerance of
// the target.
type Stability struct {
	name       string
	target     float64
	tolerance  float64
	violations int
	samples    int
}

func NewStability(target, tolerance float64) *Stability {
	return &Stability{
		name:      "stability",
		target:    target,
		tolerance: tolerance,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x sdr.SDR) {
	s.samples++
	if math.Abs(x.Sparsity()-s.target) > s.tolerance {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
