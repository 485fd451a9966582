package machine

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/sched"
)

type Machine struct {
	cfg          config.MachineConfig
	count        int
	frame        time.Duration
	windDuration time.Duration

	sched sched.Scheduler
	rng   *rand.Rand
	sink  render.Sink

	particles []*Particle
	byID      map[int]*Particle

	wind      bool
	windTimer *sched.Timer
	loop      *sched.Timer
	ticks     uint64
}

// New builds a machine with one ball per possible draw number. The batch is
// empty until Spawn is called.
func New(cfg *config.Config, s sched.Scheduler, rng *rand.Rand, sink render.Sink) *Machine {
	if sink == nil {
		sink = render.Nop{}
	}
	return &Machine{
		cfg:          cfg.Machine,
		count:        cfg.Draw.Max,
		frame:        cfg.Timing.Frame(),
		windDuration: cfg.Timing.WindDurationD(),
		sched:        s,
		rng:          rng,
		sink:         sink,
		byID:         make(map[int]*Particle),
	}
}

func (m *Machine) Config() config.MachineConfig { return m.cfg }
func (m *Machine) Count() int                   { return m.count }
func (m *Machine) Ticks() uint64                { return m.ticks }
func (m *Machine) Running() bool                { return m.loop.Pending() }
func (m *Machine) WindActive() bool             { return m.wind }

// Spawn discards the current batch, scatters a fresh one inside the drum,
// pushes overlapping balls apart and (re)starts the frame loop.
func (m *Machine) Spawn() {
	m.Pause()

	c := &m.cfg
	spread := math.Max(0, c.Radius-c.BallRadius-c.SpawnMargin)

	m.particles = make([]*Particle, 0, m.count)
	m.byID = make(map[int]*Particle, m.count)
	for id := 1; id <= m.count; id++ {
		angle := m.rng.Float64() * 2 * math.Pi
		dist := m.rng.Float64() * spread
		p := &Particle{
			ID:      id,
			X:       c.CenterX + math.Cos(angle)*dist,
			Y:       c.CenterY + math.Sin(angle)*dist,
			VX:      (m.rng.Float64() - 0.5) * c.SpawnSpeed,
			VY:      (m.rng.Float64() - 0.5) * c.SpawnSpeed,
			Radius:  c.BallRadius,
			State:   render.Active,
			Visible: true,
		}
		m.particles = append(m.particles, p)
		m.byID[id] = p
	}

	// the scatter overlaps; spread it out before the first frame
	m.relax(spawnRelaxIterations)

	for _, p := range m.particles {
		m.sink.OnParticleStateChanged(p.ID, render.Active)
		m.sink.OnParticleVisibility(p.ID, true)
		m.sink.OnParticleMoved(p.ID, p.X, p.Y)
	}

	m.Start()
}

// Start schedules the frame loop if it is not already running.
func (m *Machine) Start() {
	if m.loop.Pending() {
		return
	}
	m.loop = m.sched.After(m.frame, m.onFrame)
}

// Pause cancels the frame loop. Particle state is left untouched.
func (m *Machine) Pause() {
	m.loop.Stop()
	m.loop = nil
}

func (m *Machine) onFrame() {
	m.Step()
	if m.ActiveCount() == 0 {
		m.loop = nil
		return
	}
	m.loop = m.sched.After(m.frame, m.onFrame)
}

// ActivateWind starts a gust that clears itself after the configured
// duration. Calling it while a gust is blowing does nothing and returns false.
func (m *Machine) ActivateWind() bool {
	if m.wind {
		return false
	}
	m.wind = true
	m.sink.OnWindChanged(true)
	m.windTimer = m.sched.After(m.windDuration, func() {
		m.wind = false
		m.windTimer = nil
		m.sink.OnWindChanged(false)
	})
	return true
}

// WindRemaining is how long the current gust has left, zero when calm.
func (m *Machine) WindRemaining() time.Duration {
	if !m.windTimer.Pending() {
		return 0
	}
	return m.windTimer.When().Sub(m.sched.Now())
}

// Particle returns the ball with the given number, or nil.
func (m *Machine) Particle(id int) *Particle { return m.byID[id] }

// Particles returns a snapshot of the batch in spawn order.
func (m *Machine) Particles() []Particle {
	out := make([]Particle, len(m.particles))
	for i, p := range m.particles {
		out[i] = *p
	}
	return out
}

func (m *Machine) ActiveCount() int {
	n := 0
	for _, p := range m.particles {
		if !p.Frozen() {
			n++
		}
	}
	return n
}

// KineticEnergy sums v²/2 over the active balls, treating each as unit mass.
func (m *Machine) KineticEnergy() float64 {
	e := 0.0
	for _, p := range m.particles {
		if p.Frozen() {
			continue
		}
		e += 0.5 * (p.VX*p.VX + p.VY*p.VY)
	}
	return e
}

func (m *Machine) setState(p *Particle, s render.BallState) {
	if p.State == s {
		return
	}
	p.State = s
	m.sink.OnParticleStateChanged(p.ID, s)
}

func (m *Machine) setVisible(p *Particle, v bool) {
	if p.Visible == v {
		return
	}
	p.Visible = v
	m.sink.OnParticleVisibility(p.ID, v)
}

// DimAll freezes every ball in the dimmed state.
func (m *Machine) DimAll() {
	for _, p := range m.particles {
		m.setState(p, render.Dimmed)
	}
}

// Pick marks the ball as picked. It reports false when no such ball exists.
func (m *Machine) Pick(id int) bool {
	p := m.byID[id]
	if p == nil {
		return false
	}
	m.setState(p, render.Picked)
	return true
}

// Fade hides a ball without changing its state.
func (m *Machine) Fade(id int) {
	if p := m.byID[id]; p != nil {
		m.setVisible(p, false)
	}
}

// ResetFlags makes every ball active and visible again.
func (m *Machine) ResetFlags() {
	for _, p := range m.particles {
		m.setState(p, render.Active)
		m.setVisible(p, true)
	}
}
