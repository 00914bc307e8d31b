package automation

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/storage"
)

// Scenario defines a scripted sequence of pooler runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep changes the input or selection, then draws Frames steps.
// Unset fields keep the previous step's values. A step with no frames only
// applies its changes.
type ScenarioStep struct {
	Layout       string   `yaml:"layout"`
	Noise        *float64 `yaml:"noise"`
	Density      *float64 `yaml:"density"`
	Reseed       bool     `yaml:"reseed"`
	SelectColumn *int     `yaml:"select_column"`
	Frames       int      `yaml:"frames"`
	SaveAs       string   `yaml:"save_as"`
}

// StepResult is what one scenario step produced.
type StepResult struct {
	Step    int
	Layout  string
	Frames  int
	Metrics map[string]float64
	// RunID is set when the step was saved.
	RunID string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// Runner executes scenarios against one backend.
type Runner struct {
	Registry *experiment.Registry
	Backend  render.Backend
	// Store receives steps with SaveAs set. Nil skips saving.
	Store *storage.Store
}

func (r *Runner) build(cfg *config.Config, layout string) (*experiment.Experiment, error) {
	c := *cfg
	if layout != "" {
		c.Layout = layout
	}
	l, err := r.Registry.Build(&c, r.Backend)
	if err != nil {
		return nil, err
	}
	return experiment.New(&c, l)
}

// RunScenario executes all steps in a scenario. A step that names a new
// layout starts a fresh experiment.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario, cfg *config.Config) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	var exp *experiment.Experiment
	for i, step := range scenario.Steps {
		logging.Logger().Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps))

		if exp == nil || (step.Layout != "" && step.Layout != exp.Config().Layout) {
			layout := step.Layout
			if exp != nil && layout == "" {
				layout = exp.Config().Layout
			}
			var err error
			if exp, err = r.build(cfg, layout); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		if err := applyStep(exp, step); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp.Reset()
		if step.Frames > 0 {
			if err := exp.Run(ctx, step.Frames); err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
		}

		res := StepResult{
			Step:    i + 1,
			Layout:  exp.Config().Layout,
			Frames:  len(exp.Frames()),
			Metrics: exp.MetricValues(),
		}
		if step.SaveAs != "" && r.Store != nil {
			rec := exp.Recording()
			rec.Layout = step.SaveAs
			id, err := r.Store.Save(rec)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

func applyStep(exp *experiment.Experiment, step ScenarioStep) error {
	src := exp.Source()
	if step.Noise != nil {
		if *step.Noise < 0 || *step.Noise > 1 {
			return fmt.Errorf("noise %v outside [0,1]", *step.Noise)
		}
		src.Noise = *step.Noise
	}
	if step.Density != nil {
		if err := src.SetDensity(*step.Density); err != nil {
			return err
		}
	}
	if step.Reseed {
		if err := src.Reseed(); err != nil {
			return err
		}
	}
	if step.SelectColumn != nil {
		return exp.Select(*step.SelectColumn)
	}
	return nil
}

// NoiseSweep runs the same input at evenly spaced noise levels
type NoiseSweep struct {
	Min      float64
	Max      float64
	NumSteps int
	Frames   int
}

// SweepResult holds results from one noise level
type SweepResult struct {
	Noise   float64
	Overlap float64
	Churn   float64
}

// RunSweep executes a noise sweep. Each level gets a fresh experiment with
// the same seed, so only the noise differs. Levels run concurrently.
func (r *Runner) RunSweep(ctx context.Context, sweep *NoiseSweep, cfg *config.Config) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.Frames <= 0 {
		return nil, fmt.Errorf("sweep needs frames, got %d", sweep.Frames)
	}
	results := make([]SweepResult, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	err := ensemble(sweep.NumSteps, func(i int) error {
		noise := sweep.Min + float64(i)*step
		c := *cfg
		c.Noise = noise
		exp, err := experiment.New(&c, nil)
		if err != nil {
			return err
		}
		if err := exp.Run(ctx, sweep.Frames); err != nil {
			return err
		}
		m := exp.MetricValues()
		results[i] = SweepResult{Noise: noise, Overlap: m["overlap"], Churn: m["churn"]}

		logging.Logger().Debug("sweep", "step", i+1, "of", sweep.NumSteps, "noise", noise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SeedTrials runs the pooler from several seeds
type SeedTrials struct {
	BaseSeed  int64
	NumTrials int
	Frames    int
	// MinStability marks a trial stable when its stability metric
	// reaches it.
	MinStability float64
}

type TrialResult struct {
	TrialID   int
	Seed      int64
	Stability float64
	Stable    bool
}

// RunTrials executes NumTrials experiments from consecutive seeds, all at
// once.
func (r *Runner) RunTrials(ctx context.Context, trials *SeedTrials, cfg *config.Config) ([]TrialResult, error) {
	if trials.NumTrials < 1 {
		return nil, fmt.Errorf("trials need at least 1 trial, got %d", trials.NumTrials)
	}
	if trials.Frames <= 0 {
		return nil, fmt.Errorf("trials need frames, got %d", trials.Frames)
	}
	results := make([]TrialResult, trials.NumTrials)

	err := ensemble(trials.NumTrials, func(trial int) error {
		c := *cfg
		c.Seed = trials.BaseSeed + int64(trial)
		exp, err := experiment.New(&c, nil)
		if err != nil {
			return err
		}
		if err := exp.Run(ctx, trials.Frames); err != nil {
			return err
		}
		s := exp.MetricValues()["stability"]
		results[trial] = TrialResult{
			TrialID:   trial,
			Seed:      c.Seed,
			Stability: s,
			Stable:    s >= trials.MinStability,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("seed trials", "done", trials.NumTrials)
	return results, nil
}

// ensemble runs n independent jobs concurrently and returns the first
// error by job index.
func ensemble(n int, job func(i int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = job(idx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// TrialStats counts stable and unstable trials
func TrialStats(results []TrialResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
