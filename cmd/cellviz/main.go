package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellviz/internal/automation"
	"github.com/san-kum/cellviz/internal/config"
	"github.com/san-kum/cellviz/internal/experiment"
	"github.com/san-kum/cellviz/internal/export"
	"github.com/san-kum/cellviz/internal/gui"
	"github.com/san-kum/cellviz/internal/logging"
	"github.com/san-kum/cellviz/internal/metrics"
	"github.com/san-kum/cellviz/internal/render"
	"github.com/san-kum/cellviz/internal/sdr"
	"github.com/san-kum/cellviz/internal/sdrdraw"
	"github.com/san-kum/cellviz/internal/storage"
	"github.com/san-kum/cellviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	layout     string
	seed       int64
	noise      float64
	logLevel   string
	logFile    string
	// sdr and draw
	bits      int
	active    int
	percent   float64
	flips     int
	density   float64
	outFile   string
	width     float64
	height    float64
	threshold float64
	field     bool
	// record, replay, stats
	recordFrames int
	asJSON       bool
	csvFile      string
	headless     bool
	// sweep and trials
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepFrames  int
	numTrials    int
	trialFrames  int
	minStability float64

	cfg       *config.Config
	logCloser io.Closer
)

// main registers the cellviz commands and runs the root command. With no
// subcommand the raylib window opens on the layout menu.
func main() {
	rootCmd := &cobra.Command{
		Use:               "cellviz",
		Short:             "HTM cell grid visualizer",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive(cfg, experiment.NewRegistry())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".cellviz", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&layout, "layout", "", "layout name")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.Float64Var(&noise, "noise", 0, "input noise per step, 0 to 1")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotating file")

	guiCmd := &cobra.Command{
		Use:   "gui [layout]",
		Short: "open a layout in a raylib window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return gui.RunInteractive(cfg, experiment.NewRegistry())
			}
			cfg.Layout = args[0]
			return gui.Run(cfg, experiment.NewRegistry())
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [layout]",
		Short: "open a layout in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return viz.RunInteractive(cfg, experiment.NewRegistry())
			}
			cfg.Layout = args[0]
			return viz.RunLayout(cfg, experiment.NewRegistry())
		},
	}

	sdrCmd := &cobra.Command{
		Use:   "sdr",
		Short: "generate and mutate SDRs",
	}
	sdrCmd.PersistentFlags().IntVar(&bits, "n", 400, "number of bits")
	sdrCmd.PersistentFlags().IntVar(&active, "w", 0, "active bits (default 2% of n)")

	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "print a random SDR",
		RunE:  sdrRandom,
	}
	noiseCmd := &cobra.Command{
		Use:   "noise",
		Short: "add noise to a random SDR",
		RunE:  sdrNoise,
	}
	noiseCmd.Flags().Float64Var(&percent, "percent", 0.1, "share of active bits to move")
	noiseCmd.Flags().IntVar(&flips, "bits", 0, "exact number of bits to move, overrides --percent")
	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "bring a random SDR to a target density",
		RunE:  sdrAdjust,
	}
	adjustCmd.Flags().Float64Var(&density, "density", 0.05, "target share of active bits")
	sdrCmd.AddCommand(randomCmd, noiseCmd, adjustCmd)

	drawCmd := &cobra.Command{
		Use:   "draw",
		Short: "draw a random SDR to svg, png or html",
		RunE:  drawSDR,
	}
	drawCmd.Flags().IntVar(&bits, "n", 400, "number of bits")
	drawCmd.Flags().IntVar(&active, "w", 0, "active bits (default 2% of n)")
	drawCmd.Flags().StringVarP(&outFile, "out", "o", "sdr.svg", "output file; the extension picks the format")
	drawCmd.Flags().Float64Var(&width, "width", 400, "drawing width")
	drawCmd.Flags().Float64Var(&height, "height", 400, "drawing height")
	drawCmd.Flags().Float64Var(&threshold, "threshold", -1, "mark values above this with a circle")
	drawCmd.Flags().BoolVar(&field, "field", false, "draw the active bits as a receptive field")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list available layouts",
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range experiment.NewRegistry().ListLayouts() {
				fmt.Printf("  %s\n", l)
			}
		},
	}

	recordCmd := &cobra.Command{
		Use:   "record [layout]",
		Short: "run the pooler headless and save the frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordRun,
	}
	recordCmd.Flags().IntVar(&recordFrames, "frames", 100, "number of frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRuns,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().BoolVar(&asJSON, "json", false, "print the recording as JSON")
	replayCmd.Flags().BoolVar(&headless, "headless", false, "replay without a window")

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "plot statistics of a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringVar(&csvFile, "csv", "", "also write per-frame statistics to a CSV file")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure overlap and churn across noise levels",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "lowest noise")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "highest noise")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of noise levels")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 50, "frames per level")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "run the pooler from consecutive seeds",
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&numTrials, "trials", 10, "number of seeds")
	trialsCmd.Flags().IntVar(&trialFrames, "frames", 50, "frames per trial")
	trialsCmd.Flags().Float64Var(&minStability, "min-stability", 0.9, "stability that counts as stable")

	rootCmd.AddCommand(guiCmd, tuiCmd, sdrCmd, drawCmd, presetsCmd, layoutsCmd, recordCmd, listCmd, replayCmd, statsCmd, scriptCmd, sweepCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup installs logging and resolves the config: defaults, then preset,
// then config file, then flags.
func setup(cmd *cobra.Command, args []string) error {
	closer, err := logging.Setup(logging.Config{Level: logLevel, File: logFile, MaxSize: 10, MaxAge: 7})
	if err != nil {
		return err
	}
	logCloser = closer

	cfg = config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("noise") {
		cfg.Noise = noise
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func population(n int) int {
	if active > 0 {
		return active
	}
	return sdr.DefaultW(n)
}

func formatSDR(s sdr.SDR) string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 && i%80 == 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func printSDR(label string, s sdr.SDR) {
	fmt.Printf("%s: %d/%d active (%.2f%%)\n", label, s.Population(), len(s), s.Sparsity()*100)
	fmt.Println(formatSDR(s))
	fmt.Println()
}

func sdrRandom(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := sdr.Random(rng, bits, population(bits))
	if err != nil {
		return err
	}
	printSDR("random", s)
	fmt.Printf("uniqueness: %s\n", sdr.Uniqueness(len(s), s.Population()))
	return nil
}

func sdrNoise(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := sdr.Random(rng, bits, population(bits))
	if err != nil {
		return err
	}
	var noisy sdr.SDR
	if flips > 0 {
		noisy, err = sdr.AddBitNoise(rng, s, flips)
	} else {
		noisy, err = sdr.AddNoise(rng, s, percent)
	}
	if err != nil {
		return err
	}
	printSDR("original", s)
	printSDR("noisy", noisy)
	fmt.Printf("overlap: %d\n", sdr.Overlap(s, noisy))
	return nil
}

func sdrAdjust(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := sdr.Random(rng, bits, population(bits))
	if err != nil {
		return err
	}
	adjusted, err := sdr.AdjustTo(rng, s, density)
	if err != nil {
		return err
	}
	printSDR("original", s)
	printSDR("adjusted", adjusted)
	fmt.Printf("overlap: %d\n", sdr.Overlap(s, adjusted))
	return nil
}

func drawSDR(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := sdr.Random(rng, bits, population(bits))
	if err != nil {
		return err
	}

	var pic *sdrdraw.Picture
	if field {
		pic = sdrdraw.NewReceptiveField(s.ActiveBits(), filepath.Base(outFile)).Draw(width, height)
	} else {
		opts := sdrdraw.DefaultOptions()
		opts.Width, opts.Height = width, height
		if threshold >= 0 {
			opts = opts.WithThreshold(threshold)
		}
		if pic, err = sdrdraw.FromSDR(s).Draw(opts); err != nil {
			return err
		}
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(outFile)) {
	case ".svg":
		err = export.SVG(f, pic)
	case ".png":
		err = export.PNG(f, pic)
	case ".html":
		err = export.HTML(f, pic, fmt.Sprintf("SDR %d/%d", s.Population(), len(s)))
	default:
		return fmt.Errorf("unknown output format: %s (use .svg, .png or .html)", filepath.Ext(outFile))
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func recordRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.Layout = args[0]
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	l, err := experiment.NewRegistry().Build(cfg, &render.Headless{FPS: cfg.FPS})
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, l)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("recording %s for %d frames...\n", cfg.Layout, recordFrames)
	start := time.Now()
	if err := exp.Run(ctx, recordFrames); err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Recording())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", exp.Steps())
	fmt.Println("\nmetrics:")
	printMetrics(exp.MetricValues())
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLAYOUT\tTIME\tFRAMES\tINPUTS\tCOLUMNS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Layout,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.NumInputs,
			run.NumColumns,
			run.Seed,
		)
	}

	return w.Flush()
}

func replayRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	if asJSON {
		return st.ExportJSON(os.Stdout, runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if slices.Contains(registry.ListLayouts(), meta.Layout) {
		cfg.Layout = meta.Layout
	}
	cfg.Seed = meta.Seed
	if cfg.NumInputs() != meta.NumInputs || cfg.NumColumns() != meta.NumColumns {
		return fmt.Errorf("run %s has %d inputs and %d columns, config has %d and %d",
			runID, meta.NumInputs, meta.NumColumns, cfg.NumInputs(), cfg.NumColumns())
	}

	var backend render.Backend = &render.Headless{FPS: cfg.FPS}
	var win *gui.Window
	if !headless {
		win = gui.OpenWindow("cellviz :: replay "+runID, cfg.Width, cfg.Height, cfg.FPS)
		defer win.Close()
		backend = win
	}

	l, err := registry.Build(cfg, backend)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, l)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if win == nil {
		if err := exp.Replay(ctx, recorded); err != nil {
			return err
		}
		fmt.Printf("replayed %d frames of %s\n", exp.Steps(), runID)
		printMetrics(exp.MetricValues())
		return nil
	}

	surface := l.Vis.Surface()
	loop := &render.Loop{Surface: surface, Clock: render.NewClock()}
	next := 0
	loop.BeforeFrame = func() error {
		if next >= len(recorded) {
			return nil
		}
		err := exp.Replay(ctx, recorded[next:next+1])
		next++
		return err
	}
	return loop.Run(ctx)
}

func runStats(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(recorded) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("layout: %s\n", meta.Layout)
	fmt.Printf("frames: %d\n\n", len(recorded))

	overlap := metrics.NewOverlap()
	churn := metrics.NewChurn()
	pop := make([]float64, len(recorded))
	overlaps := make([]float64, len(recorded))
	churns := make([]float64, len(recorded))
	for i, f := range recorded {
		_, columns, err := f.SDRs(meta.NumInputs, meta.NumColumns)
		if err != nil {
			return fmt.Errorf("frame %d: %w", f.Step, err)
		}
		overlap.Observe(columns)
		churn.Observe(columns)
		pop[i] = float64(columns.Population())
		overlaps[i] = overlap.Value()
		churns[i] = churn.Value()
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"active columns", pop},
		{"overlap with previous frame", overlaps},
		{"churn", churns},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if period, ok := metrics.DominantPeriod(pop); ok {
		fmt.Printf("dominant period: %.1f frames\n\n", period)
	}

	fmt.Println("metrics:")
	printMetrics(meta.Metrics)

	if csvFile == "" {
		return nil
	}
	f, err := os.Create(csvFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "active", "overlap", "churn"}); err != nil {
		return err
	}
	for i, fr := range recorded {
		row := []string{
			strconv.Itoa(fr.Step),
			strconv.FormatFloat(pop[i], 'f', 0, 64),
			strconv.FormatFloat(overlaps[i], 'f', 0, 64),
			strconv.FormatFloat(churns[i], 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s\n", csvFile)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runner := &automation.Runner{
		Registry: experiment.NewRegistry(),
		Backend:  &render.Headless{FPS: cfg.FPS},
		Store:    st,
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running scenario %s\n", sc.Name)
	results, err := runner.RunScenario(ctx, sc, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLAYOUT\tFRAMES\tPOPULATION\tOVERLAP\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.1f\t%s\n",
			r.Step, r.Layout, r.Frames, r.Metrics["population"], r.Metrics["overlap"], r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	runner := &automation.Runner{Registry: experiment.NewRegistry()}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := runner.RunSweep(ctx, &automation.NoiseSweep{
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   sweepFrames,
	}, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NOISE\tOVERLAP\tCHURN")
	churns := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.3f\t%.1f\t%.4f\n", r.Noise, r.Overlap, r.Churn)
		churns[i] = r.Churn
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(churns, asciigraph.Height(8), asciigraph.Caption("churn by noise level")))
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	runner := &automation.Runner{Registry: experiment.NewRegistry()}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := runner.RunTrials(ctx, &automation.SeedTrials{
		BaseSeed:     cfg.Seed,
		NumTrials:    numTrials,
		Frames:       trialFrames,
		MinStability: minStability,
	}, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tSTABILITY\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%v\n", r.TrialID, r.Seed, r.Stability, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.TrialStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
