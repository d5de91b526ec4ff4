package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/automation"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/experiment"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
	"github.com/san-kum/sortviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	size       int
	sorted     bool
	target     int
	speed      int
	delayMs    int
	seed       int64
	layout     string
	theme      string
	logLevel   string
	logFormat  string
	live       bool
	frameRate  int
	outFile    string
	svgWidth   int
	svgHeight  int
	svgInitial bool
	svgChart   bool
	benchAll   bool
	minSize    int
	maxSize    int
	sweepSteps int
	trials     int
	sweepSeed  int64
	addr       string
	dbPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sortviz",
		Short: "step-by-step sorting and searching visualizer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	addArrayFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run an algorithm and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlgorithm,
	}
	addArrayFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")

	liveCmd := &cobra.Command{
		Use:   "live [algorithm]",
		Short: "run an algorithm with live terminal drawing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			live = true
			return runAlgorithm(cmd, args)
		},
	}
	addArrayFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run and its trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 320, "image height")
	exportSVGCmd.Flags().BoolVar(&svgInitial, "initial", false, "draw the initial array instead of the final one")
	exportSVGCmd.Flags().BoolVar(&svgChart, "chart", false, "draw cumulative comparisons instead of bars")
	exportSVGCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare algorithms on the same input",
		RunE:  benchAlgorithms,
	}
	addArrayFlags(benchCmd)
	benchCmd.Flags().BoolVar(&benchAll, "all", false, "include searches")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [algorithm]",
		Short: "measure comparisons across array sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&minSize, "min", 5, "smallest size")
	sweepCmd.Flags().IntVar(&maxSize, "max", 60, "largest size")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 12, "number of sizes")
	sweepCmd.Flags().IntVar(&trials, "trials", 5, "runs per size")
	sweepCmd.Flags().BoolVar(&sorted, "sorted", false, "generate sorted input")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 1, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tALGORITHM\tSIZE\tSORTED\tDELAY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%v\n", name, p.Algorithm, p.Size, p.Sorted, p.Delay())
			}
			return w.Flush()
		},
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list available algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSTABLE\tIN PLACE\tNOTES")
			for _, d := range experiment.NewRegistry().ListAlgorithms() {
				fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%s\n", d.Name, d.Kind, d.Stable, d.InPlace, d.Complexity)
			}
			return w.Flush()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		RunE:  serve,
	}
	addArrayFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database (default <data>/runs.db)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	serveCmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		benchCmd, scenarioCmd, sweepCmd, presetsCmd, algorithmsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addArrayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "array size")
	cmd.Flags().BoolVar(&sorted, "sorted", false, "generate sorted input")
	cmd.Flags().IntVar(&target, "target", 0, "search target (default: a random element)")
	cmd.Flags().IntVar(&speed, "speed", config.DefaultSpeed, fmt.Sprintf("speed %d-%d", pacer.MinSpeed, pacer.MaxSpeed))
	cmd.Flags().IntVar(&delayMs, "delay", 0, "step delay in ms, overrides speed")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().StringVar(&layout, "layout", "", "layout (expanded, compact)")
}

// resolveConfig layers defaults, preset, config file and finally the flags
// the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("sorted") {
		cfg.Sorted = sorted
	}
	if flags.Changed("target") {
		t := target
		cfg.Target = &t
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
		cfg.DelayMs = 0
	}
	if flags.Changed("delay") {
		cfg.DelayMs = delayMs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("db") {
		cfg.Server.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	alg, err := cfg.AlgorithmValue()
	if err != nil {
		return err
	}

	ctl := session.New(nil, session.Options{
		Layout:    cfg.LayoutValue(),
		Range:     cfg.Range(),
		Rand:      rand.New(rand.NewSource(cfg.Seed)),
		FoundHold: cfg.FoundHold(),
		Delay:     cfg.Delay(),
	})
	m := viz.NewModel(ctl, viz.Options{
		Algorithm: alg,
		Size:      cfg.Size,
		Sorted:    cfg.Sorted,
		Speed:     cfg.Speed,
		Theme:     cfg.Theme,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	expCfg, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}
	if !live {
		expCfg.FoundHold = 0
	}
	exp := experiment.New(expCfg)

	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(expCfg.Algorithm.String(), frameRate)
		exp.Setup(renderer, pacer.RealSleeper{}, nil, nil)
		exp.AddObserver(renderer)
		renderer.Start()
		defer renderer.Stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s on %d values...\n", expCfg.Algorithm, expCfg.Size)
	start := time.Now()
	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(out.Record(cfg.Seed), out.Trace)
	if err != nil {
		return err
	}

	res := out.Result
	fmt.Printf("%s in %v\n", res.Status, elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("comparisons: %d  swaps: %d  writes: %d\n", res.Stats.Comparisons, res.Stats.Swaps, res.Stats.Writes)
	if res.Algorithm.IsSearch() {
		if res.Found() {
			fmt.Printf("target %d found at index %d\n", res.Target, res.Index)
		} else {
			fmt.Printf("target %d not found\n", res.Target)
		}
	}
	printMetrics(out.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.3f\n", name, m[name])
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
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tSIZE\tSTATUS\tCOMPARISONS\tSWAPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.Status,
			run.Stats.Comparisons,
			run.Stats.Swaps,
		)
	}
	return w.Flush()
}

// cumulativeComparisons turns a trace into the running comparison count,
// one point per event.
func cumulativeComparisons(trace storage.Trace) []float64 {
	out := make([]float64, 0, len(trace))
	n := 0.0
	for _, ev := range trace {
		if ev.Kind == algo.EventCompare {
			n++
		}
		out = append(out, n)
	}
	return out
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", rec.ID)
	fmt.Printf("algorithm: %s\n", rec.Algorithm)
	fmt.Printf("status: %s\n", rec.Status)
	fmt.Printf("size: %d  seed: %d  delay: %dms\n", rec.Size, rec.Seed, rec.DelayMs)
	if rec.Target != nil {
		fmt.Printf("target: %d  index: %d\n", *rec.Target, rec.Index)
	}
	fmt.Printf("initial: %v\n", rec.Initial)
	fmt.Printf("final:   %v\n", rec.Final)
	fmt.Printf("comparisons: %d  swaps: %d  writes: %d  events: %d\n",
		rec.Stats.Comparisons, rec.Stats.Swaps, rec.Stats.Writes, len(trace))
	if len(rec.Stats.PassSwaps) > 0 {
		fmt.Printf("swaps per pass: %v\n", rec.Stats.PassSwaps)
	}

	if series := cumulativeComparisons(trace); len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("comparisons over events")))
	}
	return nil
}

func createOutput() (*os.File, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func loadRun(id string) (*storage.Record, storage.Trace, error) {
	st := storage.New(dataDir)
	rec, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(id)
	if err != nil {
		return nil, nil, err
	}
	return rec, trace, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	rec, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, done, err := createOutput()
	if err != nil {
		return err
	}
	defer done()
	return storage.ExportJSON(w, rec, trace)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, done, err := createOutput()
	if err != nil {
		return err
	}
	defer done()
	return storage.WriteTraceCSV(w, trace)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	rec, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	th := viz.GetTheme(theme)

	var svg string
	if svgChart {
		svg = export.SeriesToSVG(cumulativeComparisons(trace), svgWidth, svgHeight, string(th.Accent))
		if svg == "" {
			return fmt.Errorf("run %s has too few events to chart", rec.ID)
		}
	} else {
		values := rec.Final
		if svgInitial {
			values = rec.Initial
		}
		f := frame.Frame{Values: values, Roles: make([]frame.RoleSet, len(values))}
		if !svgInitial && rec.Target != nil && rec.Index >= 0 && rec.Index < len(values) {
			f.Roles[rec.Index] = f.Roles[rec.Index].With(algo.RoleFound)
		}
		svg = export.FrameToSVG(f, svgWidth, svgHeight, th)
	}

	w, done, err := createOutput()
	if err != nil {
		return err
	}
	defer done()
	_, err = fmt.Fprintln(w, svg)
	return err
}

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	base, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}
	base.Delay = 0

	algorithms := algo.Sorts()
	if benchAll {
		algorithms = algo.All()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %d algorithms on %d values (seed %d)...\n", len(algorithms), base.Size, cfg.Seed)
	outs, err := experiment.Compare(ctx, base, algorithms)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARISONS\tSWAPS\tWRITES\tEVENTS\tRESULT")
	series := make([]float64, 0, len(outs))
	for _, o := range outs {
		res := o.Result
		result := res.Status.String()
		if res.Algorithm.IsSearch() {
			result = fmt.Sprintf("index %d", res.Index)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			res.Algorithm, res.Stats.Comparisons, res.Stats.Swaps, res.Stats.Writes, len(o.Trace), result)
		series = append(series, float64(res.Stats.Comparisons))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Caption("comparisons per algorithm, in table order")))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	outs, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tALGORITHM\tSIZE\tSTATUS\tCOMPARISONS\tSWAPS\tINDEX")
	for i, o := range outs {
		res := o.Result
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%d\t%d\n",
			i+1, res.Algorithm, len(o.Initial), res.Status, res.Stats.Comparisons, res.Stats.Swaps, res.Index)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for i, step := range sc.Steps {
		if step.SaveAs == "" || i >= len(outs) {
			continue
		}
		if err := saveOutcome(step.SaveAs, outs[i], step.Seed); err != nil {
			return err
		}
		fmt.Printf("saved step %d to %s\n", i+1, step.SaveAs)
	}
	return nil
}

func saveOutcome(path string, o *experiment.Outcome, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return storage.ExportJSON(f, o.Record(seed), o.Trace)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.SizeSweep{
		Algorithm: args[0],
		MinSize:   minSize,
		MaxSize:   maxSize,
		NumSteps:  sweepSteps,
		Trials:    trials,
		Sorted:    sorted,
		Seed:      sweepSeed,
	}
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tCOMPARISONS\tMAX\tSWAPS\tWRITES")
	series := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.1f\t%d\t%.1f\t%.1f\n", r.Size, r.MeanComparisons, r.MaxComparisons, r.MeanSwaps, r.MeanWrites)
		series = append(series, r.MeanComparisons)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("%s: mean comparisons by size", args[0]))))
	}
	return nil
}
