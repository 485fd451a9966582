package viz

import (
	"math/rand"
	"time"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/draw"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/reveal"
	"github.com/san-kum/lottosim/internal/sched"
)

// session is one running drum: its loop, machine, controller and the screen
// they publish to.
type session struct {
	cfg     *config.Config
	loop    *sched.Loop
	screen  *Screen
	machine *machine.Machine
	ctrl    *reveal.Controller
	rng     *rand.Rand

	hist    *history.Log
	entries []history.Entry
}

func newSession(cfg *config.Config, opts Options, now time.Time) *session {
	seed := cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	screen := NewScreen(cfg.Machine)
	sinks := render.Multi{screen}
	sinks = append(sinks, opts.Sinks...)
	if opts.Metrics != nil {
		sinks = append(sinks, opts.Metrics)
	}

	var gen reveal.Drawer = draw.NewSeeded(seed)
	if cfg.Draw.Crypto {
		gen = draw.NewCrypto()
	}

	loop := sched.NewLoop(now)
	m := machine.New(cfg, loop, rand.New(rand.NewSource(seed)), sinks)
	ctrl := reveal.New(cfg, m, loop, gen, sinks).WithLogger(opts.Logger)
	if opts.History != nil {
		ctrl.WithHistory(opts.History)
	}
	if opts.Metrics != nil {
		ctrl.OnComplete(func(r reveal.Result) {
			opts.Metrics.ObserveRound(r.Numbers, r.Duration())
		})
	}
	if opts.OnRound != nil {
		ctrl.OnComplete(opts.OnRound)
	}

	s := &session{
		cfg:     cfg,
		loop:    loop,
		screen:  screen,
		machine: m,
		ctrl:    ctrl,
		rng:     rand.New(rand.NewSource(seed + 1)),
		hist:    opts.History,
	}
	ctrl.OnComplete(func(reveal.Result) { s.loadHistory() })
	s.loadHistory()

	m.Spawn()
	return s
}

func (s *session) loadHistory() {
	if s.hist == nil {
		return
	}
	s.entries = s.hist.LoadAll()
}

// progress is the share of the reveal script already played, 0 when idle.
func (s *session) progress() float64 {
	if s.ctrl.Idle() {
		return 0
	}
	total := s.cfg.Timing.RevealDuration(s.cfg.Draw.Count)
	if total <= 0 {
		return 0
	}
	return float64(s.loop.Now().Sub(s.ctrl.Started())) / float64(total)
}

// tap blows wind as if a random visible ball had been clicked.
func (s *session) tap() bool {
	ids := s.screen.VisibleBalls()
	if len(ids) == 0 {
		return false
	}
	return s.ctrl.Tap(ids[s.rng.Intn(len(ids))])
}
