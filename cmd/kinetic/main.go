package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kinetic/internal/driver"
	"github.com/san-kum/kinetic/internal/engine"
	"github.com/san-kum/kinetic/internal/motion"
	"github.com/san-kum/kinetic/internal/trace"
	"github.com/san-kum/kinetic/internal/viz"
)

var (
	dataDir  string
	from     float64
	to       float64
	tension  float64
	friction float64
	mass     float64
	velocity float64
	clamp    bool
	duration float64
	decay    bool
	fps      int
	maxTime  float64
	preset   string
	easing   string
	save     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinetic",
		Short: "spring animation engine",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinetic", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an animation headless and plot it",
		RunE:  runAnimation,
	}
	runCmd.Flags().Float64Var(&from, "from", 0, "start value")
	runCmd.Flags().Float64Var(&to, "to", 100, "goal value")
	runCmd.Flags().Float64Var(&tension, "tension", motion.DefaultTension, "spring tension")
	runCmd.Flags().Float64Var(&friction, "friction", motion.DefaultFriction, "spring friction")
	runCmd.Flags().Float64Var(&mass, "mass", motion.DefaultMass, "mass")
	runCmd.Flags().Float64Var(&velocity, "velocity", 0, "initial velocity")
	runCmd.Flags().BoolVar(&clamp, "clamp", false, "clamp at goal")
	runCmd.Flags().Float64Var(&duration, "duration", 0, "fixed duration (ms, overrides spring)")
	runCmd.Flags().BoolVar(&decay, "decay", false, "decay mode")
	runCmd.Flags().IntVar(&fps, "fps", 60, "frame rate")
	runCmd.Flags().Float64Var(&maxTime, "time", 10, "max simulated seconds")
	runCmd.Flags().StringVar(&preset, "preset", "", "config preset")
	runCmd.Flags().StringVar(&easing, "easing", "linear", "easing curve (duration mode)")
	runCmd.Flags().BoolVar(&save, "save", false, "save the trace")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "default", "config preset")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or show one as yaml",
		RunE:  showPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved traces",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, runsCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig() (*motion.Config, error) {
	var cfg *motion.Config
	if preset != "" {
		cfg = motion.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	} else {
		cfg = &motion.Config{Mass: mass, Tension: tension, Friction: friction, Clamp: clamp}
	}
	if velocity != 0 {
		cfg.Velocity = []float64{velocity}
	}
	if duration > 0 {
		cfg.Duration = motion.Ptr(duration)
		fn, ok := motion.Easings[easing]
		if !ok {
			return nil, fmt.Errorf("unknown easing %q", easing)
		}
		cfg.Easing = fn
	}
	if decay {
		cfg.Decay = motion.Ptr(motion.DecayDefault)
	}
	return cfg.Normalize(), nil
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	loop := driver.New()
	value := engine.New(engine.Scalar(from),
		engine.WithDriver(loop),
		engine.WithBatch(loop.Batch()),
		engine.WithFault(func(err error) {
			fmt.Fprintln(os.Stderr, "fault:", err)
		}))

	if _, err := value.Start(engine.Update{To: engine.Scalar(to), Config: cfg}); err != nil {
		return err
	}

	rec := trace.NewRecorder()
	dt := 1000.0 / float64(fps)
	rec.Observe(0, value.Get())
	for t := 0.0; t < maxTime*1000 && loop.Running(); t += dt {
		loop.Tick(dt)
		rec.Observe(dt, value.Get())
	}

	fmt.Println(asciigraph.Plot(rec.Series(0), asciigraph.Width(70), asciigraph.Height(14)))
	fmt.Println()

	settle := trace.SettleTime(rec.Samples(), 0, to, 0.01)
	over := trace.Overshoot(rec.Samples(), 0, from, to)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mode\t%s\n", cfg.Mode())
	fmt.Fprintf(w, "final\t%.4f\n", trace.FinalValue(rec.Samples(), 0))
	fmt.Fprintf(w, "settle\t%.1f ms\n", settle)
	fmt.Fprintf(w, "overshoot\t%.2f%%\n", over*100)
	fmt.Fprintf(w, "samples\t%d\n", rec.Len())
	w.Flush()

	if save {
		store := trace.NewStore(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		meta := trace.RunMetadata{
			Mode:     cfg.Mode().String(),
			Preset:   preset,
			Tension:  cfg.Tension,
			Friction: cfg.Friction,
			Mass:     cfg.Mass,
			From:     []float64{from},
			Goal:     []float64{to},
			Fps:      fps,
			Stats: map[string]float64{
				"settle_ms": settle,
				"overshoot": over,
			},
		}
		runID, err := store.Save(meta, rec.Samples())
		if err != nil {
			return err
		}
		fmt.Println("saved", runID)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg := motion.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", preset)
	}

	value := engine.New(engine.Scalar(0))
	model := viz.NewModel(value, cfg)

	p := tea.NewProgram(model)
	_, err := p.Run()
	return err
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range motion.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := motion.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", args[0])
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := trace.NewStore(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTENSION\tFRICTION\tGOAL\tTIME")
	for _, r := range runs {
		goal := 0.0
		if len(r.Goal) > 0 {
			goal = r.Goal[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.1f\t%s\n",
			r.ID, r.Mode, r.Tension, r.Friction, goal, r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := trace.NewStore(dataDir)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	series := make([]float64, 0, len(samples))
	for _, s := range samples {
		if len(s.Values) > 0 {
			series = append(series, s.Values[0])
		}
	}
	fmt.Println(asciigraph.Plot(series, asciigraph.Width(70), asciigraph.Height(14)))
	return nil
}
