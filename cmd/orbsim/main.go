package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/export"
	"github.com/san-kum/orbsim/internal/logging"
	"github.com/san-kum/orbsim/internal/metrics"
	"github.com/san-kum/orbsim/internal/observability"
	"github.com/san-kum/orbsim/internal/optim"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/san-kum/orbsim/internal/viz"
)

const defaultPreset = "leo"

var (
	dataDir     string
	configFile  string
	dt          float64
	duration    float64
	timeScale   float64
	metricsAddr string
	speedup     int
	outFile     string
	svgWidth    int
	svgHeight   int
	sweepMetric string
	sweepSteps  int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "orbsim",
		Short:         "satellite orbit simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{defaultPreset})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a fleet simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time step")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated wall-clock duration")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orbital distance of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and events to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render stored trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a fleet with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&speedup, "speedup", 10, "simulation frames per rendered frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep the fleet time scale and score each run by a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTimeScale,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "radius_spread", "metric to minimize")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of time scales between the limits")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, svgCmd, presetsCmd, liveCmd, sweepCmd)
	rootCmd.Flags().IntVar(&speedup, "speedup", 10, "simulation frames per rendered frame")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	cmd.Flags().Float64Var(&timeScale, "time-scale", 0, "override every satellite's time scale (0.1-3.0)")
}

// loadScenario resolves the preset or config file and applies flag
// overrides. It returns the config and a name for the run.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := defaultPreset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	} else {
		cfg, err = config.GetPreset(name)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Lookup("time-scale") != nil && flags.Changed("time-scale") {
		cfg.SetTimeScale(timeScale)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, name, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	log := logging.NewFromEnv()

	sats, err := cfg.BuildSatellites()
	if err != nil {
		return err
	}
	s := sim.New(sats, log)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	if metricsAddr != "" {
		collector, err := observability.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		s.AddObserver(collector)

		serveCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := collector.Serve(serveCtx, metricsAddr); err != nil {
				log.Error(serveCtx, "metrics server stopped", logging.Err(err))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))
	}

	fmt.Printf("running %s with %d satellite(s)...\n", name, len(sats))
	start := time.Now()

	result, err := s.Run(ctx, cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	satNames := make([]string, len(sats))
	for i, sat := range sats {
		satNames[i] = sat.Name
	}
	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Name:                   name,
		Dt:                     cfg.Dt,
		Duration:               cfg.Duration,
		CentralBodyRadius:      cfg.CentralBody.Radius,
		GravitationalParameter: cfg.CentralBody.GravitationalParameter,
		Satellites:             satNames,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (sim time %.4f)\n", result.Frames, result.SimTime)

	if len(result.Events) > 0 {
		fmt.Println("\nevents:")
		for _, ev := range result.Events {
			fmt.Printf("  frame %-6d %-8s %s\n", ev.Frame, ev.Satellite, ev.Kind)
		}
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}
	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tDT\tSATELLITES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			strings.Join(run.Satellites, ","),
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))
	fmt.Println(viz.PlotRadius(samples, 80, 12))

	events, err := st.LoadEvents(runID)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Printf("  t=%-10.1f %-8s %s\n", ev.Time, ev.Satellite, ev.Kind)
	}
	return nil
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

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportRun(os.Stdout, args[0])
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := st.ExportRun(f, args[0]); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	svg := export.TrajectorySVG(samples, meta.CentralBodyRadius, svgWidth, svgHeight)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSATELLITES\tDURATION")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		sats := make([]string, len(cfg.Satellites))
		for i, s := range cfg.Satellites {
			sats[i] = s.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f\n", name, strings.Join(sats, ","), cfg.Duration)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	sats, err := cfg.BuildSatellites()
	if err != nil {
		return err
	}
	// the TUI owns the terminal, so the simulator stays quiet
	s := sim.New(sats, logging.Noop())
	return viz.RunLive(cmd.Context(), s, cfg.CentralBody.Position, cfg.Dt, speedup)
}

func sweepTimeScale(cmd *cobra.Command, args []string) error {
	base, name, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Simulator, sim.Config, error) {
		cfg := *base
		cfg.Satellites = append([]config.SatelliteConfig(nil), base.Satellites...)
		cfg.SetTimeScale(params["time_scale"])
		sats, err := cfg.BuildSatellites()
		if err != nil {
			return nil, sim.Config{}, err
		}
		s := sim.New(sats, logging.Noop())
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, cfg.SimConfig(), nil
	}

	scales := optim.Linspace(orbit.MinTimeScale, orbit.MaxTimeScale, sweepSteps)
	g := optim.NewGridSearch([]string{"time_scale"}, [][]float64{scales})
	fmt.Printf("sweeping %s over %d time scales...\n", name, len(scales))

	trials, best, err := g.Search(cmd.Context(), build, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME SCALE\t%s\tCRASHES\tESCAPES\tFRAMES\n", strings.ToUpper(sweepMetric))
	for _, tr := range trials {
		crashes, escapes := 0, 0
		for _, ev := range tr.Result.Events {
			switch ev.Kind {
			case sim.EventCrash:
				crashes++
			case sim.EventEscape:
				escapes++
			}
		}
		fmt.Fprintf(w, "%.2f\t%.6g\t%d\t%d\t%d\n", tr.Params["time_scale"], tr.Value, crashes, escapes, tr.Result.Frames)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: time scale %.2f (%s %.6g)\n", best.Params["time_scale"], sweepMetric, best.Value)
	return nil
}
