package metrics

import "github.com/san-kum/cellviz/internal/sdr"

// Metric accumulates a statistic over a stream of SDRs.
type Metric interface {
	Name() string
	Observe(s sdr.SDR)
	Value() float64
	Reset()
}

// Standard returns the metrics shown by the TUI and the stats command.
func Standard(targetSparsity float64) []Metric {
	return []Metric{
		NewPopulation(),
		NewSparsity(),
		NewOverlap(),
		NewChurn(),
		NewStability(targetSparsity, targetSparsity/2),
	}
}

// Series keeps the last Limit values of a metric for plotting.
type Series struct {
	Limit  int
	values []float64
}

func NewSeries(limit int) *Series { return &Series{Limit: limit} }

func (s *Series) Push(v float64) {
	s.values = append(s.values, v)
	if s.Limit > 0 && len(s.values) > s.Limit {
		s.values = s.values[len(s.values)-s.Limit:]
	}
}

func (s *Series) Values() []float64 { return s.values }
func (s *Series) Len() int          { return len(s.values) }
