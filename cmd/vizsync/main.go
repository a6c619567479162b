package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/vizsync/internal/config"
	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/engine"
	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/playback"
	"github.com/san-kum/vizsync/internal/scene"
	"github.com/san-kum/vizsync/internal/storage"
	"github.com/san-kum/vizsync/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	// load
	snapshot bool
	svgFile  string
	theme    string
	// select
	showInputs  bool
	showOutputs bool
	drawLines   bool
	geometry    string
	thickness   float32
	// record
	steps     int
	amplitude float32
	// replay
	live        bool
	plot        bool
	loop        bool
	metricsAddr string
	// export
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vizsync",
		Short:         "keep a 3D scene in sync with a simulation model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vizsync", "data directory for recorded runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	loadCmd := &cobra.Command{
		Use:   "load [model.yaml]",
		Short: "build the scene for a model and summarise it",
		Args:  cobra.ExactArgs(1),
		RunE:  loadModel,
	}
	loadCmd.Flags().BoolVar(&snapshot, "snapshot", false, "print a wireframe snapshot of the scene")
	loadCmd.Flags().StringVar(&svgFile, "svg", "", "write the scene wireframe to an SVG file")
	loadCmd.Flags().StringVar(&theme, "theme", "cyberpunk", fmt.Sprintf("svg colour theme %v", viz.ThemeNames()))

	exploreCmd := &cobra.Command{
		Use:   "explore [model.yaml]",
		Short: "browse the entity tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  exploreModel,
	}

	selectCmd := &cobra.Command{
		Use:   "select [model.yaml] [path...]",
		Short: "select entities or aspects and show the resulting scene state",
		Args:  cobra.MinimumNArgs(2),
		RunE:  selectPaths,
	}
	selectCmd.Flags().BoolVar(&showInputs, "inputs", true, "highlight input connections")
	selectCmd.Flags().BoolVar(&showOutputs, "outputs", true, "highlight output connections")
	selectCmd.Flags().BoolVar(&drawLines, "lines", false, "draw connection lines")
	selectCmd.Flags().StringVar(&geometry, "geometry", "", "rebuild selections as lines or cylinders")
	selectCmd.Flags().Float32Var(&thickness, "thickness", config.DefaultThickness, "line thickness for --geometry")

	recordCmd := &cobra.Command{
		Use:   "record [model.yaml]",
		Short: "record a synthetic run that oscillates every leaf",
		Args:  cobra.ExactArgs(1),
		RunE:  recordRun,
	}
	recordCmd.Flags().IntVar(&steps, "steps", 100, "number of frames")
	recordCmd.Flags().Float32Var(&amplitude, "amplitude", 1, "oscillation amplitude")

	replayCmd := &cobra.Command{
		Use:   "replay [model.yaml] [run_id]",
		Short: "replay a recorded run into the scene",
		Args:  cobra.ExactArgs(2),
		RunE:  replayRun,
	}
	replayCmd.Flags().BoolVar(&live, "live", false, "show the scene while replaying")
	replayCmd.Flags().BoolVar(&plot, "plot", false, "plot objects updated per step")
	replayCmd.Flags().BoolVar(&loop, "loop", false, "restart from step 0 at the end")
	replayCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				rows = append(rows, []string{
					name,
					cfg.GeometryType().String(),
					fmt.Sprintf("%d", cfg.Scene.LineThreshold),
					fmt.Sprintf("%t", cfg.Selection.UnselectedTransparent),
					fmt.Sprintf("%t", cfg.Selection.DrawConnectionLines),
				})
			}
			fmt.Println(viz.Table([]string{"preset", "geometry", "threshold", "ghost", "lines"}, rows))
			return nil
		},
	}

	rootCmd.AddCommand(loadCmd, exploreCmd, selectCmd, recordCmd, replayCmd, runsCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
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
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a loaded model and the engine showing it.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	root    *scene.Root
	engine  *engine.Engine
	project *model.Project
}

func openSession(path string, opts ...engine.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger(os.Stderr)

	p, err := model.Load(path, logger)
	if err != nil {
		return nil, err
	}
	root := scene.NewRoot()
	e := engine.New(cfg, root, append([]engine.Option{engine.WithLogger(logger)}, opts...)...)
	if err := e.LoadProject(p); err != nil {
		// Failed aspects are logged; the rest of the scene is usable.
		logger.Warn("project loaded with errors", "err", err)
	}
	return &session{cfg: cfg, logger: logger, root: root, engine: e, project: p}, nil
}

func (s *session) bounds() control.Bounds {
	ctl := s.engine.Controller()
	b, err := ctl.ZoomTo(ctl.ScenePaths()...)
	if err != nil {
		return control.Bounds{Radius: 1}
	}
	return b
}

func objectRows(reg *scene.Registry, paths []string) [][]string {
	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		obj, ok := reg.Lookup(p)
		if !ok {
			continue
		}
		var flags []string
		for _, f := range []struct {
			on   bool
			name string
		}{
			{obj.Selected, "selected"},
			{obj.Ghosted, "ghosted"},
			{obj.Input, "input"},
			{obj.Output, "output"},
			{!obj.Visible, "hidden"},
		} {
			if f.on {
				flags = append(flags, f.name)
			}
		}
		rows = append(rows, []string{
			p,
			obj.Kind.String(),
			fmt.Sprintf("%d", len(obj.MergedPaths)),
			fmt.Sprintf("%.2f", obj.Opacity()),
			strings.Join(flags, ","),
		})
	}
	return rows
}

var objectHeaders = []string{"path", "kind", "merged", "opacity", "state"}

func loadModel(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(s.project.Name))
	fmt.Println(viz.Metric("Complexity", fmt.Sprintf("%d", s.project.Complexity())))
	fmt.Println(viz.Metric("Line mode", s.cfg.GeometryType().LineMode().String()))
	fmt.Println(viz.Metric("Objects", fmt.Sprintf("%d", s.root.Len())))
	fmt.Println(viz.Table(objectHeaders, objectRows(s.engine.Registry(), s.engine.Controller().ScenePaths())))

	if snapshot {
		fmt.Print(viz.Snapshot(s.root.Objects(), s.bounds(), 60, 20))
	}
	if svgFile != "" {
		f, err := os.Create(svgFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := viz.WriteSVG(f, s.root.Objects(), s.bounds(), 800, 600, viz.GetTheme(theme)); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgFile)
	}
	return nil
}

func exploreModel(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	ex := viz.NewExplorer(s.engine.Propagator(), s.project.Entities, s.root.Objects, s.cfg.Scene.Thickness)
	return viz.RunExplorer(ex)
}

func selectPaths(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}

	prop := s.engine.Propagator()
	opts := prop.Options()
	opts.ShowInputs = showInputs
	opts.ShowOutputs = showOutputs
	opts.DrawConnectionLines = drawLines
	prop.SetOptions(opts)

	var gt control.GeometryType
	if geometry != "" {
		if gt, err = control.ParseGeometryType(geometry); err != nil {
			return err
		}
	}

	idx := s.engine.Index()
	var errs []error
	for _, path := range args[1:] {
		if e, ok := idx.Entity(path); ok {
			fmt.Printf("%s: %s\n", path, prop.SelectEntity(e))
			if geometry != "" {
				errs = append(errs, prop.SetEntityGeometryType(e, gt, thickness, true))
			}
			continue
		}
		if a, ok := idx.Aspect(path); ok {
			fmt.Printf("%s: %s\n", path, prop.SelectAspect(a))
			if geometry != "" {
				errs = append(errs, prop.SetAspectGeometryType(a, gt, thickness))
			}
			continue
		}
		errs = append(errs, fmt.Errorf("select %s: %w", path, model.ErrNotFound))
	}

	fmt.Println(viz.Table(objectHeaders, objectRows(s.engine.Registry(), s.engine.Controller().ScenePaths())))
	if lines := s.engine.Controller().ConnectionLines(); len(lines) > 0 {
		targets := make([]string, 0, len(lines))
		for t := range lines {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		fmt.Println(viz.Subtle.Render("connection lines to " + strings.Join(targets, ", ")))
	}
	return errors.Join(errs...)
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := model.Load(args[0], cfg.Logger(os.Stderr))
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	frames := storage.Synthesize(p, steps, amplitude)
	runID, err := st.Save(p.ID, cfg.Playback.IntervalMs, frames)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s (%d frames)\n", runID, len(frames))
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	s, err := openSession(args[0], engine.WithMetrics(reg))
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(args[1])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if metricsAddr == "" {
		metricsAddr = s.cfg.Metrics.Addr
	}
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				s.logger.Debug("metrics server shutdown", "err", err)
			}
		}()
		s.logger.Info("serving metrics", "addr", metricsAddr)
	}

	interval := s.cfg.Interval()
	if meta.IntervalMs > 0 && configFile == "" && preset == "" {
		interval = time.Duration(meta.IntervalMs) * time.Millisecond
	}
	player, err := playback.New(playback.Options{
		Interval: interval,
		Limit:    len(frames) - 1,
		Loop:     loop || s.cfg.Playback.Loop,
	}, s.logger.With("component", "playback"))
	if err != nil {
		return err
	}

	idx := s.engine.Index()
	apply := func(step int) (int, error) {
		if step < 0 || step >= len(frames) {
			return 0, fmt.Errorf("step %d outside run of %d frames", step, len(frames))
		}
		frames[step].Apply(idx)
		return s.engine.UpdateScene(s.project.Entities), nil
	}

	if live {
		m := viz.NewLive(s.project.Name, player, len(frames)-1, s.root.Objects, s.bounds(), apply)
		return viz.RunLive(ctx, m)
	}

	var updates []float64
	err = player.Play(ctx, func(step int) bool {
		n, err := apply(step)
		if err != nil {
			s.logger.Error("replay step", "step", step, "err", err)
			return false
		}
		updates = append(updates, float64(n))
		return true
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(viz.Metric("Steps", fmt.Sprintf("%d", len(updates))))
	if plot {
		fmt.Println(viz.PlotUpdates(updates, 60, 10))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(viz.Subtle.Render("no runs recorded"))
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Project,
			fmt.Sprintf("%d", r.Steps),
			fmt.Sprintf("%d", r.Paths),
			r.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Println(viz.Table([]string{"id", "project", "steps", "paths", "time"}, rows))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.ExportJSON(w, *meta, frames)
}
