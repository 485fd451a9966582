// Package experiment runs the machine headless for a number of rounds and
// reports what happened.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/lottosim/internal/analysis"
	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/draw"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/metrics"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/reveal"
	"github.com/san-kum/lottosim/internal/sched"
)

var ErrStalled = errors.New("experiment: round did not finish")

type Config struct {
	Machine *config.Config
	Rounds  int
	Seed    int64

	// Start is the loop clock at the first frame; zero means now.
	Start time.Time

	// Realtime paces the loop against the wall clock instead of running
	// frames back to back.
	Realtime bool
}

type Report struct {
	Seed      int64
	Results   []reveal.Result
	Frequency *metrics.Frequency
	Metrics   map[string]float64
	Energy    []float64
	Frames    uint64
	Elapsed   time.Duration
}

// Mean of the named metric, or 0 when it was not recorded.
func (r *Report) Metric(name string) float64 { return r.Metrics[name] }

type Experiment struct {
	cfg      Config
	registry *Registry

	loop      *sched.Loop
	machine   *machine.Machine
	ctrl      *reveal.Controller
	metrics   []metrics.Metric
	occupancy *analysis.Occupancy
	freq      *metrics.Frequency
	energy    []float64
}

func New(cfg Config) *Experiment {
	if cfg.Machine == nil {
		cfg.Machine = config.DefaultConfig()
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
	if cfg.Seed == 0 {
		cfg.Seed = cfg.Machine.Seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Experiment{cfg: cfg, registry: NewRegistry()}
}

// Setup builds the machine and controller. hist may be nil to skip history.
func (e *Experiment) Setup(hist reveal.Appender, log *logrus.Logger, sinks ...render.Sink) error {
	mc := e.cfg.Machine
	if err := mc.Validate(); err != nil {
		return err
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	var gen reveal.Drawer = draw.NewSeeded(e.cfg.Seed)
	if mc.Draw.Crypto {
		gen = draw.NewCrypto()
	}

	sink := render.Multi(sinks)
	e.loop = sched.NewLoop(e.cfg.Start)
	e.machine = machine.New(mc, e.loop, rand.New(rand.NewSource(e.cfg.Seed)), sink)
	e.ctrl = reveal.New(mc, e.machine, e.loop, gen, sink).WithLogger(log)
	if hist != nil {
		e.ctrl.WithHistory(hist)
	}

	e.metrics = e.registry.DefaultMetrics(mc.Machine)
	e.occupancy = e.registry.occupancy(mc.Machine)
	e.freq = metrics.NewFrequency(mc.Draw.Max)
	e.ctrl.OnComplete(func(r reveal.Result) {
		if err := e.freq.Observe(r.Numbers); err != nil {
			log.WithError(err).Warn("frequency")
		}
	})
	return nil
}

// Controller is available after Setup for adding observers.
func (e *Experiment) Controller() *reveal.Controller { return e.ctrl }

func (e *Experiment) Machine() *machine.Machine { return e.machine }

func (e *Experiment) sample() {
	ps := e.machine.Particles()
	metrics.ObserveAll(e.metrics, ps)
	e.occupancy.Observe(ps)
	e.energy = append(e.energy, e.machine.KineticEnergy())
}

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	if e.ctrl == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	mc := e.cfg.Machine
	frame := mc.Timing.Frame()
	limit := 2*mc.Timing.RevealDuration(mc.Draw.Count) + time.Second
	var results []reveal.Result
	e.ctrl.OnComplete(func(r reveal.Result) { results = append(results, r) })

	e.machine.Spawn()
	for round := 0; round < e.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.ctrl.Trigger()
		target := round + 1
		done := func() bool {
			e.sample()
			return len(results) >= target
		}

		if e.cfg.Realtime {
			if err := e.loop.RunUntil(ctx, frame, done); err != nil {
				return nil, err
			}
			continue
		}
		if !e.loop.AdvanceUntil(frame, limit, done) {
			return nil, fmt.Errorf("%w: round %d after %v", ErrStalled, target, limit)
		}
	}

	report := &Report{
		Seed:      e.cfg.Seed,
		Results:   results,
		Frequency: e.freq,
		Metrics:   make(map[string]float64),
		Energy:    e.energy,
		Frames:    e.machine.Ticks(),
		Elapsed:   e.loop.Now().Sub(e.cfg.Start),
	}
	for _, m := range e.metrics {
		report.Metrics[m.Name()] = m.Value()
	}
	report.Metrics["upper"] = e.occupancy.UpperFraction()
	report.Metrics["chi_square"] = e.freq.ChiSquare()
	return report, nil
}
