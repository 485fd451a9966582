package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/experiment"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/metrics"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/reveal"
	"github.com/san-kum/lottosim/internal/storage"
	"github.com/san-kum/lottosim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	envFile     string
	preset      string
	seed        int64
	logLevel    string
	metricsAddr string

	rounds   int
	realtime bool
	menu     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lottosim",
		Short:         "lottery ball machine simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&envFile, "env", ".env", "env file with LOTTOSIM_* overrides")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	flags.StringVar(&logLevel, "log-level", "info", "log level")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the machine in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&menu, "menu", false, "start on the preset picker")
	rootCmd.Flags().BoolVar(&menu, "menu", false, "start on the preset picker")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run reveals headless and print the results",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&rounds, "rounds", 1, "number of reveals")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace the machine by the wall clock")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDRAW\tWIND\tJITTER\tREVEAL")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d/%d\t%.1f\t%.2f\t%v\n", name, cfg.Draw.Count, cfg.Draw.Max,
					cfg.Machine.WindForce, cfg.Machine.Jitter, cfg.Timing.RevealDuration(cfg.Draw.Count))
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := "lottosim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, runCmd, drawCommand(), historyCommand(), statsCommand(),
		benchCommand(), snapshotCommand(), tuneCommand(), presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers preset, config file, env and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownPreset, preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

func openHistory(cfg *config.Config, log *logrus.Logger) (*history.Log, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return history.New(st, cfg.History.Key, log), nil
}

// serveMetrics starts the prometheus endpoint when --metrics-addr is set.
// The returned func shuts it down.
func serveMetrics(p *metrics.Prometheus, log *logrus.Logger) func() {
	if metricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.WithField("addr", metricsAddr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "lottosim.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log, err := newLogger(cfg, logFile)
	if err != nil {
		return err
	}
	hist, err := openHistory(cfg, log)
	if err != nil {
		return err
	}

	prom := metrics.NewPrometheus()
	defer serveMetrics(prom, log)()

	opts := viz.Options{
		Config:   cfg,
		ShowMenu: menu,
		History:  hist,
		Logger:   log,
		Metrics:  prom,
		Sinks:    []render.Sink{render.NewLogSink(log)},
	}

	_, err = tea.NewProgram(viz.New(opts), tea.WithAltScreen()).Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	hist, err := openHistory(cfg, log)
	if err != nil {
		return err
	}

	prom := metrics.NewPrometheus()
	defer serveMetrics(prom, log)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(experiment.Config{
		Machine:  cfg,
		Rounds:   rounds,
		Seed:     cfg.Seed,
		Realtime: realtime,
	})
	if err := exp.Setup(hist, log, prom, render.NewLogSink(log)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	n := 0
	exp.Controller().OnComplete(func(r reveal.Result) {
		n++
		prom.ObserveRound(r.Numbers, r.Duration())
		line := viz.PlainRow(r.Numbers)
		if len(r.Missing) > 0 {
			line += fmt.Sprintf("  (no ball for %v)", r.Missing)
		}
		log.WithField("round", r.Round).WithField("saved", r.Saved).Debug("round finished")
		fmt.Fprintf(out, "round %d: %s\n", n, line)
	})

	fmt.Fprintf(out, "running %d reveal(s)...\n", rounds)
	start := time.Now()
	report, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v (machine time %v, %d frames, seed %d)\n",
		time.Since(start).Round(time.Millisecond), report.Elapsed.Round(time.Millisecond), report.Frames, report.Seed)
	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, report.Metrics)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}
