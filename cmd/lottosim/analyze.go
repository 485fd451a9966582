package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lottosim/internal/analysis"
	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/experiment"
	"github.com/san-kum/lottosim/internal/export"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/metrics"
	"github.com/san-kum/lottosim/internal/optim"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/sched"
	"github.com/san-kum/lottosim/internal/viz"
)

func statsCommand() *cobra.Command {
	var draws int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "number frequency of saved or synthetic draws",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			freq := metrics.NewFrequency(cfg.Draw.Max)
			source := "history"
			if draws > 0 {
				source = fmt.Sprintf("%d synthetic draws", draws)
				gen := generatorFor(cfg)
				for i := 0; i < draws; i++ {
					numbers, err := gen.Draw(cfg.Draw.Count, cfg.Draw.Max)
					if err != nil {
						return err
					}
					if err := freq.Observe(numbers); err != nil {
						return err
					}
				}
			} else {
				hist, err := historyFor(cmd)
				if err != nil {
					return err
				}
				for _, e := range hist.LoadAll() {
					if err := freq.Observe(e.Numbers); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			if freq.Draws() == 0 {
				fmt.Fprintln(out, "no draws to analyse")
				return nil
			}

			fmt.Fprintf(out, "source: %s\n\n", source)
			fmt.Fprintln(out, asciigraph.Plot(freq.Counts(),
				asciigraph.Height(10),
				asciigraph.Width(90),
				asciigraph.Caption(fmt.Sprintf("count per number 1..%d", freq.Max())),
			))
			fmt.Fprintf(out, "\nexpected per number: %.2f\n", freq.Expected())
			fmt.Fprintf(out, "chi-square (%d dof): %.3f\n", freq.Max()-1, freq.ChiSquare())
			fmt.Fprintln(out, "most drawn:")
			for _, nc := range freq.Top(5) {
				fmt.Fprintf(out, "  %2d  %d\n", nc.Number, nc.Count)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&draws, "draws", 0, "analyse this many synthetic draws instead of history")
	return cmd
}

// headlessMachine spawns a machine on a fresh loop with no reveal attached.
func headlessMachine(cfg *config.Config) (*machine.Machine, *sched.Loop) {
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	loop := sched.NewLoop(time.Now())
	m := machine.New(cfg, loop, rand.New(rand.NewSource(s)), render.Nop{})
	m.Spawn()
	return m, loop
}

func benchCommand() *cobra.Command {
	var (
		ticks int
		plot  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure simulator throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			m, _ := headlessMachine(cfg)
			m.Pause()
			m.ActivateWind()

			energy := make([]float64, 0, ticks)
			start := time.Now()
			for i := 0; i < ticks; i++ {
				m.Step()
				energy = append(energy, m.KineticEnergy())
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BALLS\tTICKS\tTIME\tTICKS/SEC\tREALTIME")
			perSec := float64(ticks) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0fx\n", m.Count(), ticks, elapsed.Round(time.Microsecond),
				perSec, perSec/float64(cfg.Timing.FrameRate))
			if err := w.Flush(); err != nil {
				return err
			}

			freq, power := analysis.DominantFrequency(energy, float64(cfg.Timing.FrameRate))
			fmt.Fprintf(out, "\ndominant energy frequency: %.3f Hz (power %.3g)\n", freq, power)

			if plot && len(energy) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(energy,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption("kinetic energy per tick"),
				))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 6000, "number of physics ticks")
	cmd.Flags().BoolVar(&plot, "plot", true, "plot kinetic energy")
	return cmd
}

func snapshotCommand() *cobra.Command {
	var (
		after  time.Duration
		trail  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the drum as svg after running for a while",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			m, loop := headlessMachine(cfg)
			frame := cfg.Timing.Frame()

			var points []export.Point
			for elapsed := time.Duration(0); elapsed < after; elapsed += frame {
				loop.Advance(frame)
				if p := m.Particle(trail); p != nil {
					points = append(points, export.Point{X: p.X, Y: p.Y})
				}
			}

			svg := export.DrumSVG(m.Particles(), cfg.Machine)
			if trail > 0 {
				if len(points) == 0 {
					return fmt.Errorf("no ball %d in the drum", trail)
				}
				svg = export.TrailSVG(points, cfg.Machine, string(viz.GetTheme("classic").Accent))
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), svg)
				return err
			}
			return os.WriteFile(output, []byte(svg), 0644)
		},
	}
	cmd.Flags().DurationVar(&after, "after", 3*time.Second, "machine time to run before the snapshot")
	cmd.Flags().IntVar(&trail, "trail", 0, "draw the path of this ball instead of the drum")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func tuneCommand() *cobra.Command {
	var (
		params   []string
		metric   string
		maximize bool
		tuneRuns int
	)

	cmd := &cobra.Command{
		Use:     "tune",
		Short:   "grid search machine parameters",
		Example: "  lottosim tune --param gravity=0.3,0.5,0.7 --param jitter=0,0.1 --metric upper --maximize",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			names, ranges, err := parseGrid(params)
			if err != nil {
				return err
			}

			registry := experiment.NewRegistry()
			grid := optim.NewGridSearch(names, ranges)
			if maximize {
				grid.Maximize()
			}

			base := experiment.Config{Machine: cfg, Rounds: tuneRuns, Seed: cfg.Seed}
			if base.Seed == 0 {
				base.Seed = 1
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "searching %d combinations of %v on %s\n", grid.Size(), names, metric)
			best, value, err := grid.Search(context.Background(), optim.Builder(base, registry), metric)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "best %s: %.6f\n", metric, value)
			printMetrics(out, best)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "name=v1,v2,... (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "upper", "report metric to optimise")
	cmd.Flags().BoolVar(&maximize, "maximize", false, "keep the highest value instead of the lowest")
	cmd.Flags().IntVar(&tuneRuns, "rounds", 1, "reveals per combination")
	return cmd
}

func parseGrid(args []string) ([]string, [][]float64, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("at least one --param is required (one of %v)", experiment.NewRegistry().ListParams())
	}

	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, values, ok := strings.Cut(arg, "=")
		if !ok || name == "" || values == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
		}
		var vs []float64
		for _, v := range strings.Split(values, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", arg, err)
			}
			vs = append(vs, f)
		}
		names = append(names, name)
		ranges = append(ranges, vs)
	}
	return names, ranges, nil
}
