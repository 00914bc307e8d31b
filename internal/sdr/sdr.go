// Package sdr generates and mutates sparse distributed representations:
// fixed-length bit vectors with a small fraction of active bits.
//
// Every function is pure: inputs are never modified and randomness comes
// from the *rand.Rand passed in.
package sdr

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand"
)

// DefaultSparsity is the share of active bits when none is given.
const DefaultSparsity = 0.02

var (
	ErrPopulation = errors.New("sdr: population out of range")
	ErrNotBinary  = errors.New("sdr: bits must be 0 or 1")
)

// SDR is a vector of 0/1 bits.
type SDR []int

// DefaultW is the population of an n-bit SDR at DefaultSparsity.
func DefaultW(n int) int {
	return int(math.Ceil(float64(n) * DefaultSparsity))
}

// Empty returns n inactive bits.
func Empty(n int) SDR { return make(SDR, n) }

// FromActive builds an n-bit SDR with the given bits on.
func FromActive(n int, active []int) (SDR, error) {
	out := Empty(n)
	for _, i := range active {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("sdr: active bit %d outside [0,%d)", i, n)
		}
		out[i] = 1
	}
	return out, nil
}

// Random returns n bits with exactly w on. Bits are turned on one random
// index at a time until the target sparsity is met.
func Random(rng *rand.Rand, n, w int) (SDR, error) {
	if n < 0 || w < 0 || w > n {
		return nil, fmt.Errorf("%w: w=%d, n=%d", ErrPopulation, w, n)
	}
	out := Empty(n)
	for pop := 0; pop < w; {
		i := rng.Intn(n)
		if out[i] == 0 {
			out[i] = 1
			pop++
		}
	}
	return out, nil
}

func (s SDR) ActiveBits() []int   { return s.bits(1) }
func (s SDR) InactiveBits() []int { return s.bits(0) }

func (s SDR) bits(v int) []int {
	var out []int
	for i, b := range s {
		if b == v {
			out = append(out, i)
		}
	}
	return out
}

// Population counts active bits.
func (s SDR) Population() int {
	n := 0
	for _, b := range s {
		if b == 1 {
			n++
		}
	}
	return n
}

// Sparsity is Population divided by length; 0 for an empty vector.
func (s SDR) Sparsity() float64 {
	if len(s) == 0 {
		return 0
	}
	return float64(s.Population()) / float64(len(s))
}

// Invert flips every bit.
func (s SDR) Invert() SDR {
	out := make(SDR, len(s))
	for i, b := range s {
		if b == 0 {
			out[i] = 1
		}
	}
	return out
}

// Validate reports a bit that is neither 0 nor 1.
func (s SDR) Validate() error {
	for i, b := range s {
		if b != 0 && b != 1 {
			return fmt.Errorf("%w: bit %d is %d", ErrNotBinary, i, b)
		}
	}
	return nil
}

func (s SDR) clone() SDR { return append(SDR(nil), s...) }

// Overlap counts bits active in both a and b.
func Overlap(a, b SDR) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == 1 && b[i] == 1 {
			n++
		}
	}
	return n
}

// Uniqueness is the number of distinct n-bit SDRs with w active bits,
// n choose w, computed exactly.
func Uniqueness(n, w int) *big.Int {
	if w < 0 || w > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(w))
}
