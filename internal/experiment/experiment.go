package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/grid"
	"github.com/san-kum/cellviz/internal/htm"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/metrics"
	"github.com/san-kum/cellviz/internal/sdr"
	"github.com/san-kum/cellviz/internal/storage"
)

// Experiment feeds a noisy input source through a pooler and paints every
// step onto a layout.
type Experiment struct {
	cfg     *config.Config
	layout  *Layout
	rng     *rand.Rand
	source  *htm.Source
	pooler  *htm.Pooler
	metrics []metrics.Metric
	frames  []storage.Frame
	sel     *htm.Selected
	last    htm.Data
	step    int
}

func New(cfg *config.Config, layout *Layout) (*Experiment, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	pooler, err := htm.NewPooler(cfg.PoolerConfig(), rng)
	if err != nil {
		return nil, err
	}
	source, err := htm.NewSource(rng, pooler.NumInputs())
	if err != nil {
		return nil, err
	}
	source.Noise = cfg.Noise

	target := float64(cfg.Pooler.ActiveColumns) / float64(pooler.NumColumns())
	if cfg.Pooler.ActiveColumns <= 0 {
		target = float64(sdr.DefaultW(pooler.NumColumns())) / float64(pooler.NumColumns())
	}

	return &Experiment{
		cfg:     cfg,
		layout:  layout,
		rng:     rng,
		source:  source,
		pooler:  pooler,
		metrics: metrics.Standard(target),
	}, nil
}

// Step draws one pooler step.
func (e *Experiment) Step() (htm.Data, error) {
	input, err := e.source.Next()
	if err != nil {
		return htm.Data{}, err
	}
	d, err := e.pooler.Step(input)
	if err != nil {
		return htm.Data{}, err
	}
	if err := e.show(d); err != nil {
		return htm.Data{}, err
	}
	e.frames = append(e.frames, storage.NewFrame(e.step, d.InputEncoding, d.ActiveColumns))
	return d, nil
}

func (e *Experiment) show(d htm.Data) error {
	for _, m := range e.metrics {
		m.Observe(d.ActiveColumns)
	}
	e.last = d
	e.step++
	if e.layout == nil {
		return nil
	}
	return e.layout.Apply(d, e.sel)
}

// Run steps frames times, or until ctx is done when frames is zero.
func (e *Experiment) Run(ctx context.Context, frames int) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			if frames <= 0 {
				return nil
			}
			return err
		}
		if _, err := e.Step(); err != nil {
			return fmt.Errorf("step %d: %w", e.step, err)
		}
	}
	logging.Logger().Info("experiment run", "layout", e.cfg.Layout, "frames", frames, "step", e.step)
	return nil
}

// Replay draws recorded frames in order. The pooler is rebuilt from the
// same seed, so pools and masks match the recording.
func (e *Experiment) Replay(ctx context.Context, frames []storage.Frame) error {
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, columns, err := f.SDRs(e.pooler.NumInputs(), e.pooler.NumColumns())
		if err != nil {
			return fmt.Errorf("frame %d: %w", f.Step, err)
		}
		if err := e.show(e.pooler.Replay(input, columns)); err != nil {
			return fmt.Errorf("frame %d: %w", f.Step, err)
		}
	}
	return nil
}

// Select highlights a column, or clears the selection when column < 0.
// The layout is repainted at once if a step has been drawn.
func (e *Experiment) Select(column int) error {
	if column < 0 {
		e.sel = nil
	} else {
		if column >= e.pooler.NumColumns() {
			return &grid.OutOfBoundsError{Axis: "column", Value: column, Max: e.pooler.NumColumns()}
		}
		e.sel = &htm.Selected{ColumnIndex: column}
	}
	if e.step == 0 || e.layout == nil {
		return nil
	}
	return e.layout.Apply(e.last, e.sel)
}

func (e *Experiment) Selected() *htm.Selected   { return e.sel }
func (e *Experiment) Layout() *Layout           { return e.layout }
func (e *Experiment) Source() *htm.Source       { return e.source }
func (e *Experiment) Pooler() *htm.Pooler       { return e.pooler }
func (e *Experiment) Metrics() []metrics.Metric { return e.metrics }
func (e *Experiment) Last() htm.Data            { return e.last }
func (e *Experiment) Steps() int                { return e.step }
func (e *Experiment) Frames() []storage.Frame   { return e.frames }
func (e *Experiment) Config() *config.Config    { return e.cfg }

// MetricValues snapshots every metric by name.
func (e *Experiment) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Recording packages the frames drawn since the last Reset.
func (e *Experiment) Recording() *storage.Recording {
	return &storage.Recording{
		Layout:     e.cfg.Layout,
		Seed:       e.cfg.Seed,
		NumInputs:  e.pooler.NumInputs(),
		NumColumns: e.pooler.NumColumns(),
		Frames:     append([]storage.Frame(nil), e.frames...),
		Metrics:    e.MetricValues(),
	}
}

// Reset drops recorded frames and metric state.
func (e *Experiment) Reset() {
	e.frames = nil
	for _, m := range e.metrics {
		m.Reset()
	}
}
