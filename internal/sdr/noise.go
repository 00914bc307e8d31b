package sdr

import (
	"fmt"
	"math"
	"math/rand"
)

// Mutator applies noise and density changes, remembering which bits it has
// already flipped so later changes prefer fresh bits.
type Mutator struct {
	rng     *rand.Rand
	changed map[int]bool
}

func NewMutator(rng *rand.Rand) *Mutator {
	return &Mutator{rng: rng, changed: make(map[int]bool)}
}

// Changed reports whether bit i has been flipped by this mutator.
func (m *Mutator) Changed(i int) bool { return m.changed[i] }

// Reset forgets the flip history.
func (m *Mutator) Reset() { m.changed = make(map[int]bool) }

// pick removes and returns k random entries of from, taking entries not yet
// changed before any that were.
func (m *Mutator) pick(from []int, k int) []int {
	var fresh, stale []int
	for _, i := range from {
		if m.changed[i] {
			stale = append(stale, i)
		} else {
			fresh = append(fresh, i)
		}
	}
	m.rng.Shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })
	m.rng.Shuffle(len(stale), func(i, j int) { stale[i], stale[j] = stale[j], stale[i] })
	return append(fresh, stale...)[:k]
}

// AddBitNoise turns k active bits off and k inactive bits on, chosen
// without replacement. Population is unchanged.
func (m *Mutator) AddBitNoise(s SDR, k int) (SDR, error) {
	active, inactive := s.ActiveBits(), s.InactiveBits()
	if k < 0 || k > len(active) || k > len(inactive) {
		return nil, fmt.Errorf("%w: cannot flip %d of %d active and %d inactive bits",
			ErrPopulation, k, len(active), len(inactive))
	}
	out := s.clone()
	for _, i := range m.pick(active, k) {
		out[i] = 0
		m.changed[i] = true
	}
	for _, i := range m.pick(inactive, k) {
		out[i] = 1
		m.changed[i] = true
	}
	return out, nil
}

// AddNoise flips floor(population*percent) bits each way.
func (m *Mutator) AddNoise(s SDR, percent float64) (SDR, error) {
	if percent < 0 || percent > 1 {
		return nil, fmt.Errorf("sdr: noise %v outside [0,1]", percent)
	}
	k := int(math.Floor(float64(s.Population()) * percent))
	return m.AddBitNoise(s, k)
}

// AdjustTo flips the fewest bits that bring s to round(density*len(s))
// active bits.
func (m *Mutator) AdjustTo(s SDR, density float64) (SDR, error) {
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("sdr: density %v outside [0,1]", density)
	}
	target := int(math.Round(density * float64(len(s))))
	out := s.clone()
	pop := s.Population()
	switch {
	case pop < target:
		for _, i := range m.pick(s.InactiveBits(), target-pop) {
			out[i] = 1
			m.changed[i] = true
		}
	case pop > target:
		for _, i := range m.pick(s.ActiveBits(), pop-target) {
			out[i] = 0
			m.changed[i] = true
		}
	}
	return out, nil
}

// AddBitNoise is Mutator.AddBitNoise without history.
func AddBitNoise(rng *rand.Rand, s SDR, k int) (SDR, error) {
	return NewMutator(rng).AddBitNoise(s, k)
}

// AddNoise is Mutator.AddNoise without history.
func AddNoise(rng *rand.Rand, s SDR, percent float64) (SDR, error) {
	return NewMutator(rng).AddNoise(s, percent)
}

// AdjustTo is Mutator.AdjustTo without history.
func AdjustTo(rng *rand.Rand, s SDR, density float64) (SDR, error) {
	return NewMutator(rng).AdjustTo(s, density)
}
