package metrics

import "github.com/san-kum/cellviz/internal/sdr"

// Population is the mean number of active bits.
type Population struct {
	name    string
	sum     float64
	samples int
}

func NewPopulation() *Population {
	return &Population{
		name: "population",
	}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(s sdr.SDR) {
	p.sum += float64(s.Population())
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *Population) Reset() {
	p.sum = 0
	p.samples = 0
}

// Sparsity is the mean share of active bits.
type Sparsity struct {
	name    string
	sum     float64
	samples int
}

func NewSparsity() *Sparsity {
	return &Sparsity{
		name: "sparsity",
	}
}

func (s *Sparsity) Name() string { return s.name }

func (s *Sparsity) Observe(x sdr.SDR) {
	s.sum += x.Sparsity()
	s.samples++
}

func (s *Sparsity) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Sparsity) Reset() {
	s.sum = 0
	s.samples = 0
}
