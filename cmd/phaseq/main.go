package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmaravall/phaseq/internal/components"
	"github.com/jmaravall/phaseq/internal/config"
	"github.com/jmaravall/phaseq/internal/critical"
	"github.com/jmaravall/phaseq/internal/equilibrium"
	"github.com/jmaravall/phaseq/internal/flash"
	"github.com/jmaravall/phaseq/internal/locus"
	"github.com/jmaravall/phaseq/internal/saturation"
	"github.com/jmaravall/phaseq/internal/store"
	"github.com/jmaravall/phaseq/internal/sweep"
	"github.com/jmaravall/phaseq/internal/tui"
	"github.com/jmaravall/phaseq/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	family      string
	speciesList []string
	kijValue    float64
	tempK       float64
	pressPa     float64
	feed        []float64
	fromVal     float64
	toVal       float64
	steps       int
	workers     int
	seeded      bool
	live        bool
	tol         float64
	maxIter     int
	locusKind   string
	seedT       float64
	seedV       float64
	seedZ1      float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phaseq",
		Short: "phase-equilibrium solver suite for cubic equations of state",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phaseq", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&family, "model", "pr", "equation of state family (pr, srk, vdw)")
	rootCmd.PersistentFlags().StringSliceVar(&speciesList, "species", nil, "species names")
	rootCmd.PersistentFlags().Float64Var(&kijValue, "kij", 0, "binary interaction parameter")
	rootCmd.PersistentFlags().Float64Var(&tol, "tol", 0, "solver tolerance override")
	rootCmd.PersistentFlags().IntVar(&maxIter, "max-iter", 0, "solver iteration cap override")

	stateFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&tempK, "t", 0, "temperature [K]")
		cmd.Flags().Float64Var(&pressPa, "p", 0, "pressure [Pa]")
		cmd.Flags().Float64SliceVar(&feed, "feed", nil, "feed mole fractions")
	}
	gridFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&fromVal, "from", 0, "grid start")
		cmd.Flags().Float64Var(&toVal, "to", 0, "grid end")
		cmd.Flags().IntVar(&steps, "steps", 0, "grid steps")
		cmd.Flags().IntVar(&workers, "workers", 0, "parallel solves (0 = all cores)")
		cmd.Flags().BoolVar(&seeded, "seeded", false, "serial walk seeding each point from the last")
	}

	satCmd := &cobra.Command{
		Use:   "sat",
		Short: "pure-component saturation point",
		RunE:  runSat,
	}
	stateFlags(satCmd)

	critCmd := &cobra.Command{
		Use:   "crit",
		Short: "critical point of the configured system",
		RunE:  runCrit,
	}
	stateFlags(critCmd)

	flashCmd := &cobra.Command{
		Use:   "flash",
		Short: "isothermal two-phase flash",
		RunE:  runFlash,
	}
	stateFlags(flashCmd)

	bubbleCmd := &cobra.Command{
		Use:   "bubble",
		Short: "bubble pressure of a liquid feed",
		RunE:  runBubble,
	}
	stateFlags(bubbleCmd)

	dewCmd := &cobra.Command{
		Use:   "dew",
		Short: "dew pressure of a vapor feed",
		RunE:  runDew,
	}
	stateFlags(dewCmd)

	azeoCmd := &cobra.Command{
		Use:   "azeo",
		Short: "azeotrope search at fixed temperature",
		RunE:  runAzeo,
	}
	stateFlags(azeoCmd)

	lleCmd := &cobra.Command{
		Use:   "lle",
		Short: "liquid-liquid equilibrium at fixed temperature",
		RunE:  runLLE,
	}
	stateFlags(lleCmd)

	vlleCmd := &cobra.Command{
		Use:   "vlle",
		Short: "three-phase point of a binary at fixed temperature",
		RunE:  runVLLE,
	}
	stateFlags(vlleCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "saturation curve over a temperature grid",
		RunE:  runSweep,
	}
	stateFlags(sweepCmd)
	gridFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&live, "live", false, "render the sweep as it converges")

	envelopeCmd := &cobra.Command{
		Use:   "envelope",
		Short: "isothermal P-x-y bubble curve of a binary",
		RunE:  runEnvelope,
	}
	stateFlags(envelopeCmd)
	gridFlags(envelopeCmd)
	envelopeCmd.Flags().BoolVar(&live, "live", false, "render the sweep as it converges")

	locusCmd := &cobra.Command{
		Use:   "locus",
		Short: "trace a critical or three-phase branch",
		RunE:  runLocus,
	}
	stateFlags(locusCmd)
	gridFlags(locusCmd)
	locusCmd.Flags().StringVar(&locusKind, "kind", "ucst", "branch kind (ucst, vlle)")
	locusCmd.Flags().Float64Var(&seedT, "seed-t", 0, "temperature seed for the first point [K]")
	locusCmd.Flags().Float64Var(&seedV, "seed-v", 0, "molar volume seed for the first point [m3/mol]")
	locusCmd.Flags().Float64Var(&seedZ1, "seed-z1", 0.5, "composition seed for the first point")

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "list known species",
		RunE:  listComponents,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "browse saved runs interactively",
		RunE:  browseRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's points as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(satCmd, critCmd, flashCmd, bubbleCmd, dewCmd, azeoCmd, lleCmd, vlleCmd,
		sweepCmd, envelopeCmd, locusCmd, componentsCmd, presetsCmd, runsCmd, plotCmd, browseCmd,
		exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig builds the effective configuration: defaults, then
// preset, then config file, then whatever flags were set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model = family
	}
	if f.Changed("species") {
		cfg.Species = speciesList
		cfg.Kij = nil
	}
	if f.Changed("kij") {
		if len(cfg.Species) != 2 {
			return nil, fmt.Errorf("--kij needs exactly two species")
		}
		cfg.Kij = []components.KijEntry{{I: cfg.Species[0], J: cfg.Species[1], Value: kijValue}}
	}
	if f.Changed("t") {
		cfg.Conditions.T = tempK
	}
	if f.Changed("p") {
		cfg.Conditions.P = pressPa
	}
	if f.Changed("feed") {
		cfg.Feed = feed
	}
	if f.Changed("from") {
		cfg.Sweep.From = fromVal
	}
	if f.Changed("to") {
		cfg.Sweep.To = toVal
	}
	if f.Changed("steps") {
		cfg.Sweep.Steps = steps
	}
	if f.Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if f.Changed("seeded") {
		cfg.Sweep.Seeded = seeded
	}
	if f.Changed("tol") {
		cfg.Solver.Tol = tol
	}
	if f.Changed("max-iter") {
		cfg.Solver.MaxIter = maxIter
	}
	return cfg, nil
}

func runSat(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	res, err := saturation.Solve(m, cfg.Conditions.T, saturation.Options{
		Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter,
	})
	if err != nil {
		return err
	}
	fmt.Print(viz.Summary(fmt.Sprintf("saturation point of %s", cfg.Species[0]), []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(res.P, "Pa")},
		{Label: "v liquid", Value: viz.FormatSI(res.Vliq, "m3/mol")},
		{Label: "v vapor", Value: viz.FormatSI(res.Vvap, "m3/mol")},
		{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)},
	}))
	return nil
}

func runCrit(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	opt := critical.Options{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter}

	var pt critical.Point
	if len(cfg.Species) == 1 {
		pt, err = critical.SolvePure(m, opt)
	} else {
		var z []float64
		z, err = cfg.GetFeed()
		if err != nil {
			return err
		}
		pt, err = critical.SolveMixture(m, z, opt)
	}
	if err != nil {
		return err
	}
	fmt.Print(viz.Summary(fmt.Sprintf("critical point of %s", strings.Join(cfg.Species, "/")), []viz.KV{
		{Label: "T", Value: viz.FormatSI(pt.T, "K")},
		{Label: "P", Value: viz.FormatSI(pt.P, "Pa")},
		{Label: "v", Value: viz.FormatSI(pt.V, "m3/mol")},
		{Label: "iterations", Value: fmt.Sprintf("%d", pt.Iterations)},
	}))
	return nil
}

func runFlash(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	z, err := cfg.GetFeed()
	if err != nil {
		return err
	}
	res, err := flash.SolveTP(m, cfg.Conditions.P, cfg.Conditions.T, z, flash.Options{
		Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter,
	})
	if err != nil {
		return err
	}

	if !res.TwoPhase {
		phase := "liquid"
		if res.Beta == 1 {
			phase = "vapor"
		}
		fmt.Print(viz.Summary("flash result", []viz.KV{
			{Label: "phases", Value: "single (" + phase + ")"},
			{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
			{Label: "P", Value: viz.FormatSI(cfg.Conditions.P, "Pa")},
		}))
		return nil
	}

	fmt.Print(viz.Summary("flash result", []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(cfg.Conditions.P, "Pa")},
		{Label: "vapor frac", Value: fmt.Sprintf("%.6f", res.Beta)},
		{Label: "v liquid", Value: viz.FormatSI(res.Vliq, "m3/mol")},
		{Label: "v vapor", Value: viz.FormatSI(res.Vvap, "m3/mol")},
		{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)},
	}))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tFEED\tLIQUID\tVAPOR\tK")
	for i, name := range m.Names() {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", name, z[i], res.X[i], res.Y[i], res.Y[i]/res.X[i])
	}
	return w.Flush()
}

func equilibriumOptions(cfg *config.Config) equilibrium.Options {
	opt := equilibrium.Options{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter}
	if cfg.Conditions.P > 0 {
		opt.Guess = &equilibrium.Guess{P: cfg.Conditions.P}
	}
	return opt
}

func printBoundary(title string, cfg *config.Config, names []string, res equilibrium.Result) error {
	fmt.Print(viz.Summary(title, []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(res.P, "Pa")},
		{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)},
	}))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tLIQUID\tVAPOR")
	for i, name := range names {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, res.X[i], res.Y[i])
	}
	return w.Flush()
}

func runBubble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	x, err := cfg.GetFeed()
	if err != nil {
		return err
	}
	res, err := equilibrium.BubblePressure(m, cfg.Conditions.T, x, equilibriumOptions(cfg))
	if err != nil {
		return err
	}
	return printBoundary("bubble point", cfg, m.Names(), res)
}

func runDew(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	y, err := cfg.GetFeed()
	if err != nil {
		return err
	}
	res, err := equilibrium.DewPressure(m, cfg.Conditions.T, y, equilibriumOptions(cfg))
	if err != nil {
		return err
	}
	return printBoundary("dew point", cfg, m.Names(), res)
}

func runAzeo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	opt := equilibriumOptions(cfg)
	if len(cfg.Feed) > 0 {
		if opt.Guess == nil {
			opt.Guess = &equilibrium.Guess{}
		}
		opt.Guess.Comp = cfg.Feed
	}
	res, err := equilibrium.AzeotropePressure(m, cfg.Conditions.T, opt)
	if err != nil {
		return err
	}
	rows := []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(res.P, "Pa")},
	}
	for i, name := range m.Names() {
		rows = append(rows, viz.KV{Label: name, Value: fmt.Sprintf("%.6f", res.X[i])})
	}
	rows = append(rows, viz.KV{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)})
	fmt.Print(viz.Summary("azeotrope", rows))
	return nil
}

func runLLE(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	z, err := cfg.GetFeed()
	if err != nil {
		return err
	}
	res, err := equilibrium.LLEPressure(m, cfg.Conditions.T, z, equilibriumOptions(cfg))
	if err != nil {
		return err
	}
	fmt.Print(viz.Summary("liquid-liquid equilibrium", []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(res.P, "Pa")},
		{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)},
	}))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tLIQUID 1\tLIQUID 2")
	for i, name := range m.Names() {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, res.X1[i], res.X2[i])
	}
	return w.Flush()
}

func runVLLE(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	z, err := cfg.GetFeed()
	if err != nil {
		return err
	}
	opt := equilibrium.VLLEOptions{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter}
	res, err := equilibrium.VLLE(m, cfg.Conditions.T, z, opt)
	if err != nil {
		return err
	}
	fmt.Print(viz.Summary("three-phase point", []viz.KV{
		{Label: "T", Value: viz.FormatSI(cfg.Conditions.T, "K")},
		{Label: "P", Value: viz.FormatSI(res.P, "Pa")},
		{Label: "fractions", Value: fmt.Sprintf("%.4f / %.4f / %.4f", res.Fractions[0], res.Fractions[1], res.Fractions[2])},
		{Label: "iterations", Value: fmt.Sprintf("%d", res.Iterations)},
	}))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tLIQUID 1\tLIQUID 2\tVAPOR")
	for i, name := range m.Names() {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\n", name, res.X1[i], res.X2[i], res.Y[i])
	}
	return w.Flush()
}

func openStore() (*store.Store, error) {
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func reportFailures(failures []sweep.Failure) {
	for _, f := range failures {
		slog.Warn("point skipped", "at", f.At, "err", f.Err)
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	opt := sweep.SaturationOptions{
		Sweep:      sweep.Options{Workers: cfg.Sweep.Workers, Seeded: cfg.Sweep.Seeded},
		Saturation: saturation.Options{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter},
	}

	sw := cfg.Sweep
	var curve sweep.SatCurve
	if live {
		title := fmt.Sprintf("saturation sweep: %s, %g to %g K", cfg.Species[0], sw.From, sw.To)
		err = runWithLiveView(title, "P [Pa]", sw, &opt.Sweep, func(ctx context.Context) error {
			var serr error
			curve, serr = sweep.SaturationCurve(ctx, m, sw.From, sw.To, sw.Steps, opt)
			return serr
		})
	} else {
		curve, err = sweep.SaturationCurve(context.Background(), m, sw.From, sw.To, sw.Steps, opt)
	}
	if err != nil {
		return err
	}
	reportFailures(curve.Failures)

	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save(store.Run{
		Kind: "sat", Model: cfg.Model, Species: cfg.Species,
		Params:   map[string]float64{"from": sw.From, "to": sw.To},
		Failures: len(curve.Failures),
	}, store.SatTable(curve))
	if err != nil {
		return err
	}

	if !live {
		xs := make([]float64, len(curve.Points))
		ys := make([]float64, len(curve.Points))
		for i, pt := range curve.Points {
			xs[i], ys[i] = pt.T, pt.P
		}
		fmt.Println(viz.PlotXY(xs, ys, "P [Pa] vs T [K]", 72, 14))
	}
	fmt.Printf("\n%d points, %d failed\nrun id: %s\n", len(curve.Points), len(curve.Failures), runID)
	return nil
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	opt := sweep.BubbleOptions{
		Sweep:       sweep.Options{Workers: cfg.Sweep.Workers, Seeded: cfg.Sweep.Seeded},
		Equilibrium: equilibrium.Options{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter},
	}

	sw := cfg.Sweep
	T := cfg.Conditions.T
	var curve sweep.Envelope
	if live {
		title := fmt.Sprintf("bubble curve: %s at %g K", strings.Join(cfg.Species, "/"), T)
		err = runWithLiveView(title, "P [Pa]", sw, &opt.Sweep, func(ctx context.Context) error {
			var serr error
			curve, serr = sweep.BubbleCurve(ctx, m, T, sw.From, sw.To, sw.Steps, opt)
			return serr
		})
	} else {
		curve, err = sweep.BubbleCurve(context.Background(), m, T, sw.From, sw.To, sw.Steps, opt)
	}
	if err != nil {
		return err
	}
	reportFailures(curve.Failures)

	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save(store.Run{
		Kind: "envelope", Model: cfg.Model, Species: cfg.Species,
		Params:   map[string]float64{"T": T, "from": sw.From, "to": sw.To},
		Failures: len(curve.Failures),
	}, store.EnvelopeTable(curve))
	if err != nil {
		return err
	}

	if !live {
		xs := make([]float64, len(curve.Points))
		ys := make([]float64, len(curve.Points))
		for i, pt := range curve.Points {
			xs[i], ys[i] = pt.X1, pt.P
		}
		fmt.Println(viz.PlotXY(xs, ys, "bubble P [Pa] vs x1", 72, 14))
	}
	fmt.Printf("\n%d points, %d failed\nrun id: %s\n", len(curve.Points), len(curve.Failures), runID)
	return nil
}

// runWithLiveView runs the sweep in a goroutine and feeds its point
// callbacks to the live bubbletea view.
func runWithLiveView(title, unit string, sw config.SweepConfig, opt *sweep.Options, run func(context.Context) error) error {
	total := sw.Steps + 1
	ch := make(chan tui.PointMsg, total)
	h := (sw.To - sw.From) / float64(sw.Steps)
	opt.OnPoint = func(i int, v float64, err error) {
		ch <- tui.PointMsg{Index: i, At: sw.From + h*float64(i), Value: v, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- run(context.Background())
		close(ch)
	}()

	p := tea.NewProgram(tui.NewLive(title, unit, total, ch))
	if _, err := p.Run(); err != nil {
		return err
	}
	return <-done
}

func runLocus(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	sw := cfg.Sweep
	st, err := openStore()
	if err != nil {
		return err
	}

	switch locusKind {
	case "ucst":
		curve, err := locus.UCST(m, sw.From, sw.To, sw.Steps, locus.UCSTOptions{
			Seed:     critical.BinarySeed{T: seedT, V: seedV, Z1: seedZ1},
			Critical: critical.Options{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter},
		})
		if err != nil {
			return err
		}
		for _, f := range curve.Failures {
			slog.Warn("point skipped", "at", f.At, "err", f.Err)
		}
		runID, err := st.Save(store.Run{
			Kind: "ucst", Model: cfg.Model, Species: cfg.Species,
			Params:   map[string]float64{"from": sw.From, "to": sw.To},
			Failures: len(curve.Failures),
		}, store.UCSTTable(curve))
		if err != nil {
			return err
		}
		xs := make([]float64, len(curve.Points))
		ys := make([]float64, len(curve.Points))
		for i, pt := range curve.Points {
			xs[i], ys[i] = pt.P, pt.T
		}
		fmt.Println(viz.PlotXY(xs, ys, "critical T [K] vs P [Pa]", 72, 14))
		if curve.Truncated {
			fmt.Println("branch ended before the requested bound")
		}
		fmt.Printf("\n%d points, %d failed\nrun id: %s\n", len(curve.Points), len(curve.Failures), runID)
		return nil

	case "vlle":
		z, err := cfg.GetFeed()
		if err != nil {
			return err
		}
		curve, err := locus.VLLELocus(m, z, sw.From, sw.To, sw.Steps, locus.VLLELocusOptions{
			Equilibrium: equilibrium.VLLEOptions{Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter},
		})
		if err != nil {
			return err
		}
		for _, f := range curve.Failures {
			slog.Warn("point skipped", "at", f.At, "err", f.Err)
		}
		runID, err := st.Save(store.Run{
			Kind: "vlle-locus", Model: cfg.Model, Species: cfg.Species,
			Params:   map[string]float64{"from": sw.From, "to": sw.To},
			Failures: len(curve.Failures),
		}, store.VLLETable(curve))
		if err != nil {
			return err
		}
		xs := make([]float64, len(curve.Points))
		ys := make([]float64, len(curve.Points))
		for i, pt := range curve.Points {
			xs[i], ys[i] = pt.T, pt.P
		}
		fmt.Println(viz.PlotXY(xs, ys, "three-phase P [Pa] vs T [K]", 72, 14))
		if curve.Truncated {
			fmt.Println("branch ended before the requested bound (liquids merged)")
		}
		fmt.Printf("\n%d points, %d failed\nrun id: %s\n", len(curve.Points), len(curve.Failures), runID)
		return nil

	default:
		return fmt.Errorf("unknown locus kind: %s (ucst, vlle)", locusKind)
	}
}

func listComponents(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	db, err := cfg.Database()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTC [K]\tPC [Pa]\tOMEGA\tMW [kg/mol]")
	for _, name := range db.Names() {
		c, err := db.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.4g\t%.4f\t%.6f\n", c.Name, c.Tc, c.Pc, c.Omega, c.Mw)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tSPECIES\tT [K]")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\n", name, p.Model, strings.Join(p.Species, "/"), p.Conditions.T)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tMODEL\tSPECIES\tTIME\tPOINTS\tFAILED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID, run.Kind, run.Model, strings.Join(run.Species, "/"),
			run.Timestamp.Format("2006-01-02 15:04:05"), run.Points, run.Failures)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tbl, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	if len(tbl.Rows) < 2 || len(tbl.Columns) < 2 {
		return fmt.Errorf("run %s has too few points to plot", run.ID)
	}
	fmt.Printf("run: %s\nkind: %s\nspecies: %s\npoints: %d\n\n",
		run.ID, run.Kind, strings.Join(run.Species, "/"), run.Points)

	xs := make([]float64, len(tbl.Rows))
	for i, row := range tbl.Rows {
		xs[i] = row[0]
	}
	for col := 1; col < len(tbl.Columns); col++ {
		ys := make([]float64, len(tbl.Rows))
		for i, row := range tbl.Rows {
			ys[i] = row[col]
		}
		caption := fmt.Sprintf("%s vs %s", tbl.Columns[col], tbl.Columns[0])
		fmt.Println(viz.PlotXY(xs, ys, caption, 72, 10))
		fmt.Println()
	}
	return nil
}

func browseRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	b, err := tui.NewBrowser(st)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(b).Run()
	return err
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	tbl, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	return store.WriteCSV(os.Stdout, tbl)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tbl, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	return store.WriteJSON(os.Stdout, *run, tbl)
}
