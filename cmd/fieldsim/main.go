package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/export"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/gui"
	"github.com/san-kum/fieldsim/internal/observability"
	"github.com/san-kum/fieldsim/internal/session"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/surface"
	"github.com/san-kum/fieldsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	seed       uint64
	// live view
	theme string
	// render / animate / run
	gifFrames int
	runFrames int
	atTime    time.Duration
	stepDur   time.Duration
	// export
	format string
	output string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fieldsim",
		Short:         "interactive 2D electromagnetism field lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fieldsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset (applied over --config)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "seed for charge pulse phases")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "ember", "panel theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	renderCmd := &cobra.Command{
		Use:   "render [out.svg|out.png]",
		Short: "render a single frame",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().DurationVar(&atTime, "at", 0, "animation time of the frame")

	animateCmd := &cobra.Command{
		Use:   "animate [out.gif]",
		Short: "render an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  animate,
	}
	animateCmd.Flags().IntVar(&gifFrames, "frames", 90, "number of frames")
	animateCmd.Flags().DurationVar(&stepDur, "step", anim.NominalFrame, "simulated time between frames")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record the test particle",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "number of frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	probeCmd := &cobra.Command{
		Use:   "probe [x] [y]",
		Short: "print the field at a canvas point",
		Args:  cobra.ExactArgs(2),
		RunE:  probePoint,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tCHARGES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, p.Mode, len(p.Charges), p.Description)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the current configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(guiCmd, liveCmd, renderCmd, animateCmd, runCmd, listCmd, plotCmd, exportCmd, probeCmd, presetsCmd, initCmd)

	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, environment, the preset and
// the log-level flag, in that order, and validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)", config.ErrUnknownPreset, preset, strings.Join(config.ListPresets(), ", "))
		}
		p.Apply(cfg)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the config and starts logging. Interactive hosts keep the
// console quiet since they own the terminal.
func setup(console bool) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if console {
		observability.InitializeLogger(cfg.Log)
	} else {
		observability.Initialize(cfg.Log, nil)
	}
	return cfg, observability.Named("cli"), nil
}

func newDriver(cfg *config.Config, log *zap.Logger) *anim.Driver {
	return anim.New(
		anim.WithSource(field.NewGridCache()),
		anim.WithLogger(log.Named("anim")),
		anim.WithClearTrailOnRespawn(cfg.ClearTrailOnRespawn),
	)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(false)
	if err != nil {
		return err
	}
	sess := session.New(cfg, seed)
	return gui.Run(sess, gui.WithLogger(log.Named("gui")), gui.WithDriver(newDriver(cfg, log)))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(false)
	if err != nil {
		return err
	}
	sess := session.New(cfg, seed)
	return viz.Run(sess, viz.WithLogger(log.Named("viz")), viz.WithTheme(theme), viz.WithDriver(newDriver(cfg, log)))
}

func renderFrame(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(true)
	if err != nil {
		return err
	}
	path := args[0]
	write := export.WriteSVG
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
	case ".png":
		write = export.WritePNG
	default:
		return fmt.Errorf("unsupported image format %q (want .svg or .png)", ext)
	}
	f := cfg.Frame()
	f.Time = atTime

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := write(out, f); err != nil {
		return err
	}
	log.Info("frame rendered", zap.String("path", path), zap.Stringer("mode", f.Mode))
	return out.Close()
}

func animate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(true)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	a := export.Animation{
		Snapshot: session.New(cfg, seed).Snapshot(),
		Frames:   gifFrames,
		Driver:   newDriver(cfg, log),
		Step:     stepDur,
	}
	start := time.Now()
	if err := export.WriteGIF(ctx, out, a); err != nil {
		return err
	}
	log.Info("animation written", zap.String("path", args[0]), zap.Int("frames", gifFrames), zap.Duration("elapsed", time.Since(start)))
	return out.Close()
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(true)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir, log.Named("storage"))
	start := time.Now()
	meta, traj, err := recordRun(ctx, cfg, newDriver(cfg, log), seed, runFrames)
	if err != nil {
		return err
	}
	meta.Preset = preset
	id, err := st.Save(meta, traj)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(w, "run id: %s\n", id)
	fmt.Fprintf(w, "frames: %d  samples: %d  respawns: %d\n", meta.Frames, len(traj), meta.Respawns)
	if len(traj) == 0 {
		fmt.Fprintln(w, "the test particle never became active (enable test_particle with charges in an electric mode)")
	}
	return nil
}

// recordRun drives n frames against a recording surface and samples the
// particle after each one.
func recordRun(ctx context.Context, cfg *config.Config, d *anim.Driver, seed uint64, n int) (storage.RunMetadata, []storage.Sample, error) {
	if n <= 0 {
		return storage.RunMetadata{}, nil, fmt.Errorf("frame count %d must be positive", n)
	}
	snap := session.New(cfg, seed).Snapshot()
	rec := surface.NewRecorder()
	sf := surface.NewContext(rec)
	var traj []storage.Sample
	var last anim.Tick

	err := d.Run(ctx, sf, anim.Ticks(ctx, time.Unix(0, 0), n), func() anim.Snapshot { return snap }, func(t anim.Tick) {
		rec.Reset()
		last = t
		if !t.Particle.Active {
			return
		}
		p := t.Particle
		traj = append(traj, storage.Sample{
			Frame: t.Index,
			X:     p.Pos.X,
			Y:     p.Pos.Y,
			VX:    p.Vel.X,
			VY:    p.Vel.Y,
			Speed: p.Speed(),
		})
	})
	if err != nil {
		return storage.RunMetadata{}, nil, err
	}

	meta := storage.RunMetadata{
		Frames:     d.Frames(),
		Canvas:     storage.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
		Mode:       cfg.Mode.String(),
		Charges:    len(cfg.Charges),
		Respawns:   d.Respawns(),
		FinalSpeed: last.Particle.Speed(),
	}
	return meta, traj, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, zap.NewNop())
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRESET\tTIME\tMODE\tFRAMES\tCHARGES\tRESPAWNS\tFINAL SPEED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Frames,
			run.Charges,
			run.Respawns,
			run.FinalSpeed,
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, zap.NewNop())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) < 2 {
		return fmt.Errorf("run %s has no trajectory to plot", meta.ID)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "mode: %s\n", meta.Mode)
	fmt.Fprintf(w, "samples: %d\n\n", len(traj))

	series := []struct {
		caption string
		value   func(storage.Sample) float64
	}{
		{"particle speed", func(s storage.Sample) float64 { return s.Speed }},
		{"x position", func(s storage.Sample) float64 { return s.X }},
		{"y position", func(s storage.Sample) float64 { return s.Y }},
	}
	for _, s := range series {
		data := make([]float64, len(traj))
		for i, sample := range traj {
			data[i] = s.value(sample)
		}
		fmt.Fprintln(w, asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Fprintln(w)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, zap.NewNop())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "csv":
		return storage.WriteCSV(w, traj)
	case "json":
		return storage.ExportJSON(w, *meta, traj)
	case "svg":
		size := surface.Size{W: meta.Canvas.Width, H: meta.Canvas.Height}
		return export.WriteTrajectorySVG(w, size, traj)
	}
	return fmt.Errorf("unknown export format %q (want csv, json or svg)", format)
}

func probePoint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("bad x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad y %q: %w", args[1], err)
	}

	w := cmd.OutOrStdout()
	if len(cfg.Charges) == 0 {
		fmt.Fprintln(w, "no charges")
		return nil
	}
	p := field.Probe(field.Coulomb{}, cfg.Charges, x, y, x, y)
	v := field.Potential(cfg.Charges, x, y)
	fmt.Fprintf(w, "point:     (%g, %g)\n", x, y)
	fmt.Fprintf(w, "|E|:       %s\n", field.FormatFieldStrength(p.Magnitude))
	fmt.Fprintf(w, "direction: %.1f deg\n", p.DirectionDeg)
	fmt.Fprintf(w, "V:         %s\n", field.FormatPotential(v))
	if field.InsideAny(cfg.Charges, x, y) {
		fmt.Fprintln(w, "(inside a charge body)")
	}
	return nil
}
