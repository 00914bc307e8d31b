package htm

import (
	"math/rand"

	"github.com/san-kum/cellviz/internal/sdr"
)

// Source feeds a pooler: a fixed base pattern with fresh noise each step,
// so consecutive inputs overlap.
type Source struct {
	N       int
	Density float64
	Noise   float64

	rng  *rand.Rand
	mut  *sdr.Mutator
	base sdr.SDR
}

func NewSource(rng *rand.Rand, n int) (*Source, error) {
	base, err := sdr.Random(rng, n, sdr.DefaultW(n))
	if err != nil {
		return nil, err
	}
	return &Source{N: n, Density: base.Sparsity(), rng: rng, mut: sdr.NewMutator(rng), base: base}, nil
}

// SetDensity moves the base pattern to the given density.
func (s *Source) SetDensity(d float64) error {
	base, err := s.mut.AdjustTo(s.base, d)
	if err != nil {
		return err
	}
	s.base, s.Density = base, d
	return nil
}

// Reseed replaces the base pattern with a new random one at the current
// density.
func (s *Source) Reseed() error {
	base, err := sdr.Random(s.rng, s.N, int(float64(s.N)*s.Density+0.5))
	if err != nil {
		return err
	}
	s.base = base
	s.mut.Reset()
	return nil
}

func (s *Source) Base() sdr.SDR { return s.base }

// Next returns the base pattern with Noise applied.
func (s *Source) Next() (sdr.SDR, error) {
	if s.Noise == 0 {
		return append(sdr.SDR(nil), s.base...), nil
	}
	return sdr.AddNoise(s.rng, s.base, s.Noise)
}
