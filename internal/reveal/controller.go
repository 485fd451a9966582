package reveal

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/sched"
)

type Phase uint8

const (
	Idle Phase = iota
	Picking
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Picking:
		return "picking"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Drawer produces the numbers for a round.
type Drawer interface {
	Draw(count, max int) ([]int, error)
}

// Appender records a finished round.
type Appender interface {
	Append(numbers []int, at time.Time) (history.Entry, error)
}

// Result describes a finished round.
type Result struct {
	Round    string
	Numbers  []int
	Missing  []int
	Entry    history.Entry
	Saved    bool
	Started  time.Time
	Finished time.Time
}

func (r Result) Duration() time.Duration { return r.Finished.Sub(r.Started) }

type step struct {
	phase  string
	delay  time.Duration
	action func()
}

type Controller struct {
	timing config.TimingConfig
	count  int
	max    int

	m     *machine.Machine
	sched sched.Scheduler
	gen   Drawer
	hist  Appender
	sink  render.Sink

	logger *logrus.Logger
	log    *logrus.Entry

	phase   Phase
	round   string
	started time.Time
	numbers []int
	missing []int
	center  []int

	script []step
	next   int
	stage  string

	observers []func(Result)
	last      *Result
	rounds    int
}

// New wires a controller to a machine. History is optional; set it with
// WithHistory. The sink should be the same one the machine publishes to.
func New(cfg *config.Config, m *machine.Machine, s sched.Scheduler, gen Drawer, sink render.Sink) *Controller {
	if sink == nil {
		sink = render.Nop{}
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Controller{
		timing: cfg.Timing,
		count:  cfg.Draw.Count,
		max:    cfg.Draw.Max,
		m:      m,
		sched:  s,
		gen:    gen,
		sink:   sink,
		logger: logger,
		log:    logger.WithField("component", "reveal"),
	}
}

func (c *Controller) WithHistory(h Appender) *Controller {
	c.hist = h
	return c
}

func (c *Controller) WithLogger(l *logrus.Logger) *Controller {
	if l != nil {
		c.logger = l
		c.log = l.WithField("component", "reveal")
	}
	return c
}

// OnComplete registers fn to run after every finished round, once history has
// been written.
func (c *Controller) OnComplete(fn func(Result)) {
	c.observers = append(c.observers, fn)
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) Idle() bool         { return c.phase == Idle }
func (c *Controller) Round() string      { return c.round }
func (c *Controller) Stage() string      { return c.stage }
func (c *Controller) Started() time.Time { return c.started }
func (c *Controller) Rounds() int        { return c.rounds }
func (c *Controller) Last() *Result      { return c.last }
func (c *Controller) Center() []int      { return append([]int(nil), c.center...) }
func (c *Controller) Numbers() []int     { return append([]int(nil), c.numbers...) }

// Trigger starts a round. It does nothing and returns false unless the
// controller is idle.
func (c *Controller) Trigger() bool {
	if c.phase != Idle {
		return false
	}
	c.phase = Picking
	c.round = uuid.NewString()
	c.started = c.sched.Now()
	c.numbers = nil
	c.missing = nil
	c.log = c.logger.WithFields(logrus.Fields{
		"component": "reveal",
		"round":     c.round,
	})
	c.log.Info("round started")

	c.sink.OnTriggerChanged(false)
	c.script = []step{
		{phase: "wind", delay: c.timing.WindLeadD(), action: c.blow},
		{phase: "freeze", action: c.freeze},
	}
	c.next = 0
	c.advance()
	return true
}

// Tap blows wind through the drum. It is ignored while a round is running.
func (c *Controller) Tap(id int) bool {
	if c.phase != Idle {
		return false
	}
	if c.m.ActivateWind() {
		c.log.WithField("ball", id).Debug("wind tap")
		return true
	}
	return false
}

// advance runs steps until one asks for a wait, then parks on a timer.
func (c *Controller) advance() {
	for c.next < len(c.script) {
		st := c.script[c.next]
		c.next++
		c.stage = st.phase
		if st.action != nil {
			st.action()
		}
		if st.delay > 0 {
			c.sched.After(st.delay, c.advance)
			return
		}
	}
}

func (c *Controller) blow() {
	c.m.ActivateWind()
}

func (c *Controller) freeze() {
	c.m.Pause()
	c.center = c.center[:0]
	c.sink.OnCenterDisplay(nil, false)
	c.sink.OnResultsRevealed(nil)
	c.m.DimAll()

	numbers, err := c.gen.Draw(c.count, c.max)
	if err != nil {
		// the round cannot continue; put the drum back the way it was
		c.log.WithError(err).Error("draw failed")
		c.script = append(c.script, step{phase: "reset", action: c.abort})
		return
	}
	c.numbers = numbers
	c.log.WithField("numbers", numbers).Debug("numbers drawn")
	c.script = append(c.script, c.plan(numbers)...)
}

// plan lays out the rest of the round once the numbers are known.
func (c *Controller) plan(numbers []int) []step {
	steps := make([]step, 0, len(numbers)*4+4)
	for _, n := range numbers {
		n := n
		if c.m.Particle(n) != nil {
			steps = append(steps,
				step{phase: "pick", delay: c.timing.PickHoldD(), action: func() { c.pick(n) }},
				step{phase: "fade", delay: c.timing.FadeD(), action: func() { c.m.Fade(n) }},
				step{phase: "show", action: func() { c.show(n) }},
			)
		} else {
			steps = append(steps, step{phase: "skip", action: func() { c.skip(n) }})
		}
		steps = append(steps, step{phase: "gap", delay: c.timing.PickGapD()})
	}
	return append(steps,
		step{phase: "settle", delay: c.timing.SettleD()},
		step{phase: "center", delay: c.timing.CenterFadeD(), action: c.hideCenter},
		step{phase: "results", delay: c.timing.HoldD(), action: c.reveal},
		step{phase: "reset", action: c.finish},
	)
}

func (c *Controller) pick(n int) {
	c.m.Pick(n)
	c.sink.OnShake()
}

// show adds a ball to the center display once its fade has finished.
func (c *Controller) show(n int) {
	c.center = append(c.center, n)
	c.sink.OnCenterDisplay(c.Center(), true)
}

func (c *Controller) skip(n int) {
	c.missing = append(c.missing, n)
	c.log.WithField("ball", n).Warn("drawn ball not in drum")
}

func (c *Controller) hideCenter() {
	c.sink.OnCenterDisplay(c.Center(), false)
}

func (c *Controller) reveal() {
	c.sink.OnResultsRevealed(c.Numbers())
	stagger := c.timing.ResultStaggerD()
	for i, n := range c.numbers {
		i, n := i, n
		c.sched.After(time.Duration(i)*stagger, func() {
			c.sink.OnResultToken(i, n)
		})
	}
}

func (c *Controller) restore() {
	c.m.ResetFlags()
	c.phase = Idle
	c.stage = ""
	c.sink.OnTriggerChanged(true)
	c.m.Spawn()
}

func (c *Controller) abort() {
	c.restore()
	c.log.Warn("round aborted")
}

func (c *Controller) finish() {
	c.restore()

	now := c.sched.Now()
	res := Result{
		Round:    c.round,
		Numbers:  c.Numbers(),
		Missing:  append([]int(nil), c.missing...),
		Started:  c.started,
		Finished: now,
	}
	if c.hist != nil {
		entry, err := c.hist.Append(res.Numbers, now)
		if err != nil {
			c.log.WithError(err).Error("history append failed")
		} else {
			res.Entry = entry
			res.Saved = true
		}
	}

	c.rounds++
	c.last = &res
	c.log.WithFields(logrus.Fields{
		"numbers":  res.Numbers,
		"duration": res.Duration(),
	}).Info("round finished")

	for _, fn := range c.observers {
		fn(res)
	}
}
