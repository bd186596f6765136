package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mariogeiger/gradcmp-optim/internal/analysis"
	"github.com/mariogeiger/gradcmp-optim/internal/config"
	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
	"github.com/mariogeiger/gradcmp-optim/internal/objective"
	"github.com/mariogeiger/gradcmp-optim/internal/storage"
	"github.com/mariogeiger/gradcmp-optim/internal/tui"
	"github.com/mariogeiger/gradcmp-optim/internal/tune"
)

var (
	dataDir   string
	verbose   bool
	dim       int
	tau       float64
	dt        float64
	lowBound  float64
	highBound float64
	steps     int
	seed      int64
	jitter    float64
	initVals  string
	// Config file
	configFile string
	// Preset name
	preset string
	// Ensemble size
	runs int
	// Tune ranges
	taus       string
	dts        string
	tauSpan    string
	dtSpan     string
	tuneMetric string
	// Analyze
	plateauFrac float64
	// SVG export
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gradcmp",
		Short: "adaptive step size lab for momentum descent",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: "15:04:05",
			})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gradcmp", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [objective]",
		Short: "run an optimization",
		Args:  cobra.ExactArgs(1),
		RunE:  runExperiment,
	}
	addHyperFlags(runCmd)
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0, "gaussian noise on the starting point")
	runCmd.Flags().StringVar(&initVals, "init", "", "starting point, comma separated")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&runs, "runs", 1, "independent runs with consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the loss curve as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height in pixels")

	benchCmd := &cobra.Command{
		Use:   "bench [objective]",
		Short: "benchmark objective across dimensions",
		Args:  cobra.ExactArgs(1),
		RunE:  benchObjective,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 2000, "calls per benchmark run")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "convergence analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&plateauFrac, "plateau-frac", 0.01, "relative improvement that counts as progress")

	liveCmd := &cobra.Command{
		Use:   "live [objective]",
		Short: "run with live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addHyperFlags(liveCmd)
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().Float64Var(&jitter, "jitter", 0, "gaussian noise on the starting point")
	liveCmd.Flags().StringVar(&initVals, "init", "", "starting point, comma separated")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	compareCmd := &cobra.Command{
		Use:   "compare [objective] [tau1] [tau2] ...",
		Short: "compare decay constants on the same objective",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareTaus,
	}
	addHyperFlags(compareCmd)
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets [objective]",
		Short: "list available presets for an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for objective: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	objectivesCmd := &cobra.Command{
		Use:   "objectives",
		Short: "list available objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range experiment.NewRegistry().ListObjectives() {
				fmt.Println(name)
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [objective]",
		Short: "grid search over hyperparameters",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneSearch,
	}
	addHyperFlags(tuneCmd)
	tuneCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	tuneCmd.Flags().StringVar(&taus, "taus", "", "tau values, comma separated")
	tuneCmd.Flags().StringVar(&dts, "dts", "", "dt values, comma separated")
	tuneCmd.Flags().StringVar(&tauSpan, "tau-span", "", "tau span lo:hi:n, linear")
	tuneCmd.Flags().StringVar(&dtSpan, "dt-span", "", "dt span lo:hi:n, log spaced")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "final_loss", "metric to minimize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, benchCmd, analyzeCmd, liveCmd, compareCmd, presetsCmd, objectivesCmd,
		tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addHyperFlags registers the optimizer hyperparameters shared by run, live,
// compare and tune.
func addHyperFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&dim, "dim", config.DefaultDim, "problem dimension")
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau, "momentum decay constant")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "initial step size")
	cmd.Flags().Float64Var(&lowBound, "low", config.DefaultLowBound, "drift below which the step size grows")
	cmd.Flags().Float64Var(&highBound, "high", config.DefaultHighBound, "drift above which the step is rejected")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of calls")
}

// applyPresetAndConfig folds preset values and then a config file into the
// flag variables. Presets overwrite; config files fill in whatever the
// command line left untouched.
func applyPresetAndConfig(cmd *cobra.Command, objName string) error {
	if preset != "" {
		p := config.GetPreset(objName, preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(objName))
		}
		dim = p.Dim
		tau = p.Tau
		dt = p.Dt
		lowBound = p.LowBound
		highBound = p.HighBound
		steps = p.Steps
		jitter = p.Init.Jitter
		if len(p.Init.Values) > 0 {
			initVals = joinFloats(p.Init.Values)
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("dim") {
			dim = cfg.Dim
		}
		if !cmd.Flags().Changed("tau") {
			tau = cfg.Tau
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("low") {
			lowBound = cfg.LowBound
		}
		if !cmd.Flags().Changed("high") {
			highBound = cfg.HighBound
		}
		if !cmd.Flags().Changed("steps") {
			steps = cfg.Steps
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
		if !cmd.Flags().Changed("jitter") {
			jitter = cfg.Init.Jitter
		}
		if len(cfg.Init.Values) > 0 && !cmd.Flags().Changed("init") {
			initVals = joinFloats(cfg.Init.Values)
		}
	}

	return nil
}

func buildConfig(objName string) (experiment.Config, error) {
	init, err := parseFloats(initVals)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("bad init values: %w", err)
	}
	return experiment.Config{
		Objective: objName,
		Dim:       dim,
		Tau:       tau,
		Dt:        dt,
		LowBound:  lowBound,
		HighBound: highBound,
		Steps:     steps,
		Seed:      seed,
		Init:      init,
		Jitter:    jitter,
	}, nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	objName := args[0]

	if err := applyPresetAndConfig(cmd, objName); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	obj, err := registry.GetObjective(objName)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(objName)
	if err != nil {
		return err
	}

	if runs > 1 {
		return runEnsemble(cfg, obj)
	}

	exp, err := experiment.New(cfg, obj)
	if err != nil {
		return err
	}
	for _, m := range registry.DefaultMetrics() {
		exp.AddMetric(m)
	}

	slog.Info("running", "objective", objName, "dim", cfg.Dim, "tau", cfg.Tau, "steps", cfg.Steps)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	slog.Info("completed", "elapsed", elapsed, "run_id", runID)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("calls: %d  accepted: %d\n", result.Calls, result.Accepted)
	fmt.Printf("final loss: %.6e\n", result.FinalLoss)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return nil
}

func runEnsemble(cfg experiment.Config, obj objective.Objective) error {
	ens := experiment.NewEnsemble(cfg, runs, cfg.Seed)

	slog.Info("running ensemble", "objective", cfg.Objective, "runs", runs)
	start := time.Now()

	results, err := ens.Run(context.Background(), obj)
	if err != nil {
		return err
	}

	slog.Info("completed", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tACCEPTED\tFINAL_LOSS")
	finals := make([]float64, len(results))
	for i, res := range results {
		finals[i] = res.FinalLoss
		fmt.Fprintf(w, "%d\t%d\t%d\t%.6e\n", i, cfg.Seed+int64(i), res.Accepted, res.FinalLoss)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, std := stat.MeanStdDev(finals, nil)
	fmt.Printf("\nfinal loss: mean %.6e  std %.6e  min %.6e\n", mean, std, floats.Min(finals))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runList, err := st.List()
	if err != nil {
		return err
	}

	if len(runList) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOBJECTIVE\tTIME\tDIM\tTAU\tDT\tSTEPS\tFINAL_LOSS")

	for _, run := range runList {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4g\t%d\t%.3e\n",
			run.ID,
			run.Objective,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Tau,
			run.Dt,
			run.Steps,
			run.FinalLoss,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(tr) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("objective: %s\n", meta.Objective)
	fmt.Printf("samples: %d\n\n", len(tr))

	plotSeries("loss", tr.Losses())
	plotSeries("grad norm", tr.GradNorms())
	plotSeries("step size", tr.StepSizes())

	return nil
}

// plotSeries draws one chart, switching to log10 when the data allows it.
func plotSeries(caption string, vals []float64) {
	if allPositive(vals) {
		vals = log10Series(vals)
		caption = "log10 " + caption
	}
	graph := asciigraph.Plot(vals,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(tr) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteCSV(os.Stdout, tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	return storage.WriteSVG(os.Stdout, tr, svgWidth, svgHeight)
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	cfg := experiment.Config{
		Objective: meta.Objective,
		Dim:       meta.Dim,
		Tau:       meta.Tau,
		Dt:        meta.Dt,
		LowBound:  meta.LowBound,
		HighBound: meta.HighBound,
		Steps:     meta.Steps,
		Seed:      meta.Seed,
	}
	result := &experiment.Result{
		Trace:     tr,
		Metrics:   meta.Metrics,
		FinalLoss: meta.FinalLoss,
		Accepted:  meta.Accepted,
		Calls:     len(tr),
	}

	return storage.ExportJSONStdout(cfg, result)
}

func benchObjective(cmd *cobra.Command, args []string) error {
	objName := args[0]

	registry := experiment.NewRegistry()
	obj, err := registry.GetObjective(objName)
	if err != nil {
		return err
	}

	dims := []int{2, 10, 100, 1000}

	fmt.Printf("benchmarking %s\n\n", objName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tCALLS\tACCEPTED\tTIME\tCALLS/SEC")

	for _, d := range dims {
		cfg := experiment.Config{
			Objective: objName,
			Dim:       d,
			Tau:       -2,
			Dt:        1e-3,
			LowBound:  1e-4,
			HighBound: 1e-3,
			Steps:     steps,
			Seed:      42,
		}

		exp, err := experiment.New(cfg, obj)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		callsPerSec := float64(result.Calls) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", d, result.Calls, result.Accepted, elapsed, callsPerSec)
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(tr) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("convergence analysis: %s\n", meta.ID)
	fmt.Printf("objective: %s\n\n", meta.Objective)

	losses := tr.Losses()
	if allPositive(losses) {
		graph := asciigraph.Plot(log10Series(losses),
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("log10 loss"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	rate := analysis.ConvergenceRate(tr)
	plateau := analysis.PlateauLength(tr, plateauFrac)

	fmt.Printf("decay rate: %.4f\n", rate)
	if rate > 0 {
		fmt.Printf("loss half-life: %.4f time units\n", math.Ln2/rate)
	}
	fmt.Printf("plateau: %d of %d calls without %.0f%% improvement\n", plateau, len(tr), plateauFrac*100)
	fmt.Printf("acceptance: %.1f%%\n", tr.AcceptanceRate()*100)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	objName := args[0]

	if err := applyPresetAndConfig(cmd, objName); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	obj, err := registry.GetObjective(objName)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(objName)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, obj)
	if err != nil {
		return err
	}

	m := tui.NewModel(exp)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func compareTaus(cmd *cobra.Command, args []string) error {
	objName := args[0]

	registry := experiment.NewRegistry()
	obj, err := registry.GetObjective(objName)
	if err != nil {
		return err
	}

	fmt.Printf("comparing decay constants on %s (dim=%d, dt=%g, steps=%d)\n\n", objName, dim, dt, steps)
	fmt.Printf("%-10s  %-10s  %-12s  %-12s  %-10s  %-10s\n",
		"tau", "accepted", "final_loss", "decay_rate", "plateau", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	for _, arg := range args[1:] {
		tauVal, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		cfg := experiment.Config{
			Objective: objName,
			Dim:       dim,
			Tau:       tauVal,
			Dt:        dt,
			LowBound:  lowBound,
			HighBound: highBound,
			Steps:     steps,
			Seed:      seed,
		}

		exp, err := experiment.New(cfg, obj)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		rate := analysis.ConvergenceRate(result.Trace)
		plateau := analysis.PlateauLength(result.Trace, 0.01)

		fmt.Printf("%-10s  %-10d  %-12.3e  %-12.4f  %-10d  %-10.2f\n",
			arg, result.Accepted, result.FinalLoss, rate, plateau,
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func tuneSearch(cmd *cobra.Command, args []string) error {
	objName := args[0]

	registry := experiment.NewRegistry()
	obj, err := registry.GetObjective(objName)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64

	tauRange, err := parseRange(taus, tauSpan, false)
	if err != nil {
		return fmt.Errorf("bad tau range: %w", err)
	}
	if len(tauRange) > 0 {
		names = append(names, "tau")
		ranges = append(ranges, tauRange)
	}

	dtRange, err := parseRange(dts, dtSpan, true)
	if err != nil {
		return fmt.Errorf("bad dt range: %w", err)
	}
	if len(dtRange) > 0 {
		names = append(names, "dt")
		ranges = append(ranges, dtRange)
	}

	if len(names) == 0 {
		return fmt.Errorf("nothing to tune: pass --taus, --dts, --tau-span or --dt-span")
	}

	grid, err := tune.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	base := experiment.Config{
		Objective: objName,
		Dim:       dim,
		Tau:       tau,
		Dt:        dt,
		LowBound:  lowBound,
		HighBound: highBound,
		Steps:     steps,
		Seed:      seed,
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := tune.Apply(base, params)
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg, obj)
		if err != nil {
			return nil, err
		}
		for _, m := range registry.DefaultMetrics() {
			exp.AddMetric(m)
		}
		return exp, nil
	}

	slog.Info("grid search", "objective", objName, "points", grid.Size(), "metric", tuneMetric)
	start := time.Now()

	best, score, err := grid.Search(context.Background(), build, tuneMetric)
	if err != nil {
		return err
	}

	slog.Info("completed", "elapsed", time.Since(start))

	fmt.Printf("best %s: %.6e\n", tuneMetric, score)
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, best[k])
	}

	return nil
}

// parseRange resolves one hyperparameter range from either an explicit
// comma list or a lo:hi:n span.
func parseRange(list, span string, logScale bool) ([]float64, error) {
	if list != "" {
		return parseFloats(list)
	}
	if span == "" {
		return nil, nil
	}

	parts := strings.Split(span, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("span must be lo:hi:n, got %q", span)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("span needs at least one point")
	}

	if logScale {
		return tune.LogSpace(lo, hi, n), nil
	}
	return tune.LinSpace(lo, hi, n), nil
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func allPositive(vals []float64) bool {
	for _, v := range vals {
		if v <= 0 {
			return false
		}
	}
	return len(vals) > 0
}

func log10Series(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log10(v)
	}
	return out
}
