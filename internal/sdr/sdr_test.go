package sdr

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func newRand() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestRandom(t *testing.T) {
	s, err := Random(newRand(), 1000, 20)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(s) != 1000 {
		t.Errorf("expected 1000 bits, got %d", len(s))
	}
	if p := s.Population(); p < 19 || p > 21 {
		t.Errorf("expected population near 20, got %d", p)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("expected binary SDR, got %v", err)
	}
}

func TestRandomGuards(t *testing.T) {
	tests := []struct {
		n, w int
	}{
		{10, 11},
		{10, -1},
		{-1, 0},
	}
	for _, tt := range tests {
		if _, err := Random(newRand(), tt.n, tt.w); !errors.Is(err, ErrPopulation) {
			t.Errorf("n=%d w=%d: expected ErrPopulation, got %v", tt.n, tt.w, err)
		}
	}

	s, err := Random(newRand(), 10, 10)
	if err != nil {
		t.Fatalf("Random full: %v", err)
	}
	if s.Population() != 10 {
		t.Errorf("expected all 10 bits on, got %d", s.Population())
	}
}

func TestDefaultW(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1000, 20},
		{10, 1},
	}
	for _, tt := range tests {
		if got := DefaultW(tt.n); got != tt.want {
			t.Errorf("DefaultW(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestInspect(t *testing.T) {
	s := SDR{0, 1, 1, 0, 0}
	if got := s.ActiveBits(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("active bits %v", got)
	}
	if got := s.InactiveBits(); !slices.Equal(got, []int{0, 3, 4}) {
		t.Errorf("inactive bits %v", got)
	}
	if s.Population() != 2 {
		t.Errorf("expected population 2, got %d", s.Population())
	}
	if math.Abs(s.Sparsity()-0.4) > 1e-12 {
		t.Errorf("expected sparsity 0.4, got %f", s.Sparsity())
	}
	if got := s.Invert(); !slices.Equal(got, SDR{1, 0, 0, 1, 1}) {
		t.Errorf("invert %v", got)
	}
	if !slices.Equal(s, SDR{0, 1, 1, 0, 0}) {
		t.Error("invert must not change its input")
	}
	if (SDR{}).Sparsity() != 0 {
		t.Error("empty SDR should have zero sparsity")
	}
	if err := (SDR{0, 2}).Validate(); !errors.Is(err, ErrNotBinary) {
		t.Errorf("expected ErrNotBinary, got %v", err)
	}
}

func TestFromActive(t *testing.T) {
	s, err := FromActive(5, []int{0, 4})
	if err != nil {
		t.Fatalf("FromActive: %v", err)
	}
	if !slices.Equal(s, SDR{1, 0, 0, 0, 1}) {
		t.Errorf("got %v", s)
	}
	if _, err := FromActive(5, []int{5}); err == nil {
		t.Error("expected error for index past the end")
	}
}

func changedBits(a, b SDR) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func TestAddBitNoise(t *testing.T) {
	rng := newRand()
	s, err := Random(rng, 1000, 20)
	if err != nil {
		t.Fatal(err)
	}

	noisy, err := AddBitNoise(rng, s, 5)
	if err != nil {
		t.Fatalf("AddBitNoise: %v", err)
	}
	if noisy.Population() != s.Population() {
		t.Errorf("population changed: %d -> %d", s.Population(), noisy.Population())
	}
	if n := changedBits(s, noisy); n != 10 {
		t.Errorf("expected 10 changed positions, got %d", n)
	}
	if o := Overlap(s, noisy); o != 15 {
		t.Errorf("expected overlap 15, got %d", o)
	}

	if _, err := AddBitNoise(rng, s, 21); !errors.Is(err, ErrPopulation) {
		t.Errorf("expected ErrPopulation, got %v", err)
	}
}

func TestAddNoise(t *testing.T) {
	rng := newRand()
	s, _ := Random(rng, 1000, 20)
	noisy, err := AddNoise(rng, s, 0.25)
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	if o := Overlap(s, noisy); o != 15 {
		t.Errorf("expected overlap 15, got %d", o)
	}
	if _, err := AddNoise(rng, s, 1.5); err == nil {
		t.Error("expected error for noise above 1")
	}
}

func TestAdjustTo(t *testing.T) {
	rng := newRand()
	s, _ := Random(rng, 1000, 20)

	tests := []struct {
		name    string
		density float64
		want    int
	}{
		{"up", 0.05, 50},
		{"down", 0.01, 10},
		{"same", 0.02, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustTo(rng, s, tt.density)
			if err != nil {
				t.Fatalf("AdjustTo: %v", err)
			}
			if got.Population() != tt.want {
				t.Errorf("expected population %d, got %d", tt.want, got.Population())
			}
			switch {
			case tt.want > s.Population():
				if o := Overlap(s, got); o != s.Population() {
					t.Errorf("only off bits should turn on, overlap %d", o)
				}
			case tt.want == s.Population():
				if !slices.Equal(got, s) {
					t.Error("unchanged density should keep the SDR")
				}
			}
		})
	}
}

func TestMutatorPrefersFreshBits(t *testing.T) {
	m := NewMutator(newRand())
	s := SDR{1, 1, 0, 0, 0, 0}

	up, err := m.AdjustTo(s, 4.0/6)
	if err != nil {
		t.Fatal(err)
	}
	if up.Population() != 4 {
		t.Fatalf("expected 4 bits on, got %d", up.Population())
	}

	// Turning two bits back off must take the original on bits, not the
	// ones just turned on.
	down, err := m.AdjustTo(up, 2.0/6)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(down[:2], SDR{0, 0}) {
		t.Errorf("expected original bits off, got %v", down[:2])
	}
	for i := 2; i < 6; i++ {
		if up[i] != down[i] {
			t.Errorf("bit %d changed: %d -> %d", i, up[i], down[i])
		}
	}
}

func TestUniqueness(t *testing.T) {
	tests := []struct {
		n, w int
		want string
	}{
		{5, 2, "10"},
		{5, 0, "1"},
		{5, 6, "0"},
	}
	for _, tt := range tests {
		if got := Uniqueness(tt.n, tt.w).String(); got != tt.want {
			t.Errorf("Uniqueness(%d, %d) = %s, want %s", tt.n, tt.w, got, tt.want)
		}
	}
	// 2048 choose 40 has 85 digits.
	if got := len(Uniqueness(2048, 40).String()); got != 85 {
		t.Errorf("expected 85 digits, got %d", got)
	}
}
