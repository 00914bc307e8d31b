package htm

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"

	"github.com/san-kum/cellviz/internal/sdr"
)

// PoolerConfig sizes a Pooler. Zero fields take the defaults below.
type PoolerConfig struct {
	InputDims         [2]int  `yaml:"input_dims"`
	ColumnDims        [2]int  `yaml:"column_dims"`
	PotentialPct      float64 `yaml:"potential_pct"`
	ActiveColumns     int     `yaml:"active_columns"`
	InhibitionRadius  int     `yaml:"inhibition_radius"`
	StimulusThreshold int     `yaml:"stimulus_threshold"`
	DutyCyclePeriod   int     `yaml:"duty_cycle_period"`
}

const (
	DefaultPotentialPct     = 0.5
	DefaultInhibitionRadius = 2
	DefaultDutyCyclePeriod  = 1000
)

func (c PoolerConfig) withDefaults() PoolerConfig {
	if c.PotentialPct <= 0 {
		c.PotentialPct = DefaultPotentialPct
	}
	if c.ActiveColumns <= 0 {
		c.ActiveColumns = sdr.DefaultW(c.ColumnDims[0] * c.ColumnDims[1])
	}
	if c.InhibitionRadius <= 0 {
		c.InhibitionRadius = DefaultInhibitionRadius
	}
	if c.DutyCyclePeriod <= 0 {
		c.DutyCyclePeriod = DefaultDutyCyclePeriod
	}
	return c
}

// Pooler is a minimal spatial pooler: fixed random potential pools, global
// k-winner inhibition on raw overlap, and running duty cycles. It does not
// learn.
type Pooler struct {
	cfg         PoolerConfig
	numInputs   int
	numColumns  int
	pools       [][]int
	masks       [][]int
	activeDuty  []float64
	overlapDuty []float64
	iteration   int
}

func NewPooler(cfg PoolerConfig, rng *rand.Rand) (*Pooler, error) {
	cfg = cfg.withDefaults()
	numInputs := cfg.InputDims[0] * cfg.InputDims[1]
	numColumns := cfg.ColumnDims[0] * cfg.ColumnDims[1]
	if numInputs <= 0 || numColumns <= 0 {
		return nil, fmt.Errorf("htm: pooler needs inputs and columns, got %v and %v", cfg.InputDims, cfg.ColumnDims)
	}
	if cfg.ActiveColumns > numColumns {
		return nil, fmt.Errorf("htm: %d active columns of %d", cfg.ActiveColumns, numColumns)
	}
	p := &Pooler{
		cfg:         cfg,
		numInputs:   numInputs,
		numColumns:  numColumns,
		pools:       make([][]int, numColumns),
		masks:       make([][]int, numColumns),
		activeDuty:  make([]float64, numColumns),
		overlapDuty: make([]float64, numColumns),
	}
	size := max(1, int(math.Round(cfg.PotentialPct*float64(numInputs))))
	for c := range p.pools {
		pool := rng.Perm(numInputs)[:size]
		sort.Ints(pool)
		p.pools[c] = pool
		p.masks[c] = p.neighbors(c)
	}
	return p, nil
}

// neighbors lists the columns within InhibitionRadius of c on the column
// grid, c excluded.
func (p *Pooler) neighbors(c int) []int {
	X, Y := p.cfg.ColumnDims[0], p.cfg.ColumnDims[1]
	cx, cy := c%X, c/X
	r := p.cfg.InhibitionRadius
	var out []int
	for y := max(0, cy-r); y <= min(Y-1, cy+r); y++ {
		for x := max(0, cx-r); x <= min(X-1, cx+r); x++ {
			if i := y*X + x; i != c {
				out = append(out, i)
			}
		}
	}
	return out
}

func (p *Pooler) NumInputs() int  { return p.numInputs }
func (p *Pooler) NumColumns() int { return p.numColumns }
func (p *Pooler) Iteration() int  { return p.iteration }

// Overlaps counts, per column, the active input bits in its pool.
func (p *Pooler) Overlaps(input sdr.SDR) []int {
	out := make([]int, p.numColumns)
	for c, pool := range p.pools {
		for _, i := range pool {
			out[c] += input[i]
		}
	}
	return out
}

// winners returns the ActiveColumns columns with the highest overlap above
// the stimulus threshold. Ties go to the lower index.
func (p *Pooler) winners(overlaps []int) []int {
	order := make([]int, p.numColumns)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return overlaps[order[a]] > overlaps[order[b]] })
	var out []int
	for _, c := range order[:p.cfg.ActiveColumns] {
		if overlaps[c] > p.cfg.StimulusThreshold {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

func (p *Pooler) updateDuty(dc []float64, c int, on bool) {
	period := float64(min(p.iteration, p.cfg.DutyCyclePeriod))
	v := 0.0
	if on {
		v = 1
	}
	dc[c] = (dc[c]*(period-1) + v) / period
}

// Step runs one input through the pooler and returns the state to draw.
func (p *Pooler) Step(input sdr.SDR) (Data, error) {
	if len(input) != p.numInputs {
		return Data{}, fmt.Errorf("%w: input has %d bits, want %d", ErrShape, len(input), p.numInputs)
	}
	if err := input.Validate(); err != nil {
		return Data{}, err
	}
	p.iteration++
	overlaps := p.Overlaps(input)
	winners := p.winners(overlaps)
	active, err := sdr.FromActive(p.numColumns, winners)
	if err != nil {
		return Data{}, err
	}
	for c := range p.activeDuty {
		p.updateDuty(p.activeDuty, c, slices.Contains(winners, c))
		p.updateDuty(p.overlapDuty, c, overlaps[c] > p.cfg.StimulusThreshold)
	}
	return Data{
		InputEncoding:     slices.Clone(input),
		ActiveColumns:     active,
		ActiveDutyCycles:  slices.Clone(p.activeDuty),
		OverlapDutyCycles: slices.Clone(p.overlapDuty),
		PotentialPools:    p.pools,
		InhibitionMasks:   p.masks,
	}, nil
}

// Replay wraps recorded SDRs with this pooler's pools and masks. Duty
// cycles are not recorded and stay empty.
func (p *Pooler) Replay(input, active sdr.SDR) Data {
	return Data{
		InputEncoding:   input,
		ActiveColumns:   active,
		PotentialPools:  p.pools,
		InhibitionMasks: p.masks,
	}
}
