package machine

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/sched"
)

const tol = 1e-6

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestMachine(seed int64, mutate func(*config.Config)) (*Machine, *sched.Loop, *render.Recorder) {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	loop := sched.NewLoop(epoch)
	rec := render.NewRecorder()
	return New(cfg, loop, rand.New(rand.NewSource(seed)), rec), loop, rec
}

// still removes every force so tests can place balls by hand.
func still(cfg *config.Config) {
	cfg.Machine.Gravity = 0
	cfg.Machine.Jitter = 0
	cfg.Machine.WindJitterX = 0
	cfg.Machine.WindJitterY = 0
	cfg.Machine.Friction = 1
}

func distFromCenter(m *Machine, p Particle) float64 {
	c := m.Config()
	return math.Hypot(p.X-c.CenterX, p.Y-c.CenterY)
}

func TestSpawnBatch(t *testing.T) {
	m, _, rec := newTestMachine(1, nil)
	m.Spawn()

	ps := m.Particles()
	if len(ps) != 45 {
		t.Fatalf("expected 45 particles, got %d", len(ps))
	}

	c := m.Config()
	seen := make(map[int]bool)
	for _, p := range ps {
		if p.ID < 1 || p.ID > 45 || seen[p.ID] {
			t.Errorf("bad or duplicate id %d", p.ID)
		}
		seen[p.ID] = true
		if d := distFromCenter(m, p); d > c.Radius-c.BallRadius+tol {
			t.Errorf("ball %d spawned %.2f from center", p.ID, d)
		}
		if p.State != render.Active || !p.Visible {
			t.Errorf("ball %d should start active and visible", p.ID)
		}
		if math.Abs(p.VX) > 1 || math.Abs(p.VY) > 1 {
			t.Errorf("ball %d initial velocity too high: (%.2f, %.2f)", p.ID, p.VX, p.VY)
		}
	}

	if worst := worstOverlap(ps); worst > tol {
		t.Errorf("spawned balls overlap by %f", worst)
	}

	if len(rec.Positions) != 45 {
		t.Errorf("expected 45 published positions, got %d", len(rec.Positions))
	}
	if !m.Running() {
		t.Error("expected frame loop running after spawn")
	}
}

func TestBoundaryContainment(t *testing.T) {
	m, loop, _ := newTestMachine(3, nil)
	m.Spawn()
	m.Pause()
	c := m.Config()

	for tick := 0; tick < 3000; tick++ {
		if tick%400 == 0 {
			m.ActivateWind()
		}
		m.Step()
		loop.Advance(m.frame)

		for _, p := range m.Particles() {
			if d := distFromCenter(m, p); d+p.Radius > c.Radius+tol {
				t.Fatalf("tick %d: ball %d at %.4f escapes drum of radius %.1f", tick, p.ID, d+p.Radius, c.Radius)
			}
		}
	}
}

func TestSystemStaysBounded(t *testing.T) {
	m, _, _ := newTestMachine(5, nil)
	m.Spawn()
	m.Pause()

	for i := 0; i < 2000; i++ {
		m.Step()
	}
	for _, p := range m.Particles() {
		if math.IsNaN(p.X) || math.IsNaN(p.VX) || p.Speed() > 100 {
			t.Fatalf("ball %d diverged: %+v", p.ID, p)
		}
	}
}

func TestCollideSeparatesAndSwaps(t *testing.T) {
	m, _, _ := newTestMachine(1, nil)
	a := &Particle{ID: 1, X: 250, Y: 250, VX: 1, VY: 0, Radius: 24}
	b := &Particle{ID: 2, X: 270, Y: 250, VX: -2, VY: 0.5, Radius: 24}

	if !m.collide(a, b) {
		t.Fatal("expected overlapping balls to collide")
	}

	if d := a.DistanceTo(b); math.Abs(d-48) > tol {
		t.Errorf("expected separation 48, got %f", d)
	}
	if mid := (a.X + b.X) / 2; math.Abs(mid-260) > tol {
		t.Errorf("separation should be symmetric, midpoint moved to %f", mid)
	}
	if math.Abs(a.VX+1.9) > tol || math.Abs(a.VY-0.475) > tol {
		t.Errorf("a velocity = (%f, %f), want (-1.9, 0.475)", a.VX, a.VY)
	}
	if math.Abs(b.VX-0.95) > tol || math.Abs(b.VY) > tol {
		t.Errorf("b velocity = (%f, %f), want (0.95, 0)", b.VX, b.VY)
	}

	if m.collide(a, b) {
		t.Error("touching balls should not collide again")
	}
}

func TestCollideCoincidentCenters(t *testing.T) {
	m, _, _ := newTestMachine(1, nil)
	a := &Particle{X: 100, Y: 100, Radius: 10}
	b := &Particle{X: 100, Y: 100, Radius: 10}
	m.collide(a, b)
	if d := a.DistanceTo(b); math.Abs(d-20) > tol {
		t.Errorf("expected separation 20, got %f", d)
	}
}

func TestPairResolvedWithinTick(t *testing.T) {
	m, _, _ := newTestMachine(1, func(cfg *config.Config) {
		still(cfg)
		cfg.Draw.Max = 2
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Pause()

	a, b := m.Particle(1), m.Particle(2)
	a.X, a.Y, a.VX, a.VY = 240, 250, 3, 0
	b.X, b.Y, b.VX, b.VY = 260, 252, -3, 1

	m.Step()

	if d := a.DistanceTo(b); d < a.Radius+b.Radius-tol {
		t.Errorf("balls still overlap after tick: distance %f", d)
	}
}

// worstOverlap is the deepest overlap between two active balls.
func worstOverlap(ps []Particle) float64 {
	worst := 0.0
	for i := range ps {
		if ps[i].Frozen() {
			continue
		}
		for j := i + 1; j < len(ps); j++ {
			if ps[j].Frozen() {
				continue
			}
			if o := ps[i].Radius + ps[j].Radius - ps[i].DistanceTo(&ps[j]); o > worst {
				worst = o
			}
		}
	}
	return worst
}

func TestFullDrumHasNoOverlap(t *testing.T) {
	for _, seed := range []int64{1, 7, 23} {
		m, loop, _ := newTestMachine(seed, nil)
		m.Spawn()
		m.Pause()
		c := m.Config()

		for tick := 0; tick < 600; tick++ {
			if tick%200 == 0 {
				m.ActivateWind()
			}
			m.Step()
			loop.Advance(m.frame)

			ps := m.Particles()
			if worst := worstOverlap(ps); worst > tol {
				t.Fatalf("seed %d tick %d: balls overlap by %f", seed, tick, worst)
			}
			for _, p := range ps {
				if d := distFromCenter(m, p); d+p.Radius > c.Radius+tol {
					t.Fatalf("seed %d tick %d: ball %d escapes drum", seed, tick, p.ID)
				}
			}
		}
	}
}

func TestOverlapOutsideTickIsResolved(t *testing.T) {
	m, _, _ := newTestMachine(4, func(cfg *config.Config) {
		still(cfg)
		cfg.Draw.Max = 3
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Pause()

	a, b, c := m.Particle(1), m.Particle(2), m.Particle(3)
	a.X, a.Y, a.VX, a.VY = 250, 250, 0, 0
	b.X, b.Y, b.VX, b.VY = 250, 250, 0, 0
	c.X, c.Y, c.VX, c.VY = 270, 250, 0, 0

	m.Step()

	if worst := worstOverlap(m.Particles()); worst > tol {
		t.Errorf("expected a clear drum after one tick, overlap %f", worst)
	}
}

func TestBounceReflectsAndDamps(t *testing.T) {
	m, _, _ := newTestMachine(1, func(cfg *config.Config) {
		still(cfg)
		cfg.Draw.Max = 1
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Pause()
	c := m.Config()

	p := m.Particle(1)
	p.X, p.Y = c.CenterX+c.Radius-c.BallRadius-1, c.CenterY
	p.VX, p.VY = 5, 0

	m.Step()

	if math.Abs(p.X-(c.CenterX+c.Radius-c.BallRadius)) > tol {
		t.Errorf("expected ball clamped to wall, x=%f", p.X)
	}
	if want := -5 * c.Damping; math.Abs(p.VX-want) > tol {
		t.Errorf("expected reflected vx %f, got %f", want, p.VX)
	}
}

func TestFrozenBallsDoNotMove(t *testing.T) {
	m, _, _ := newTestMachine(9, nil)
	m.Spawn()
	m.Pause()

	before := m.Particles()
	m.DimAll()
	for i := 0; i < 50; i++ {
		m.Step()
	}
	after := m.Particles()
	for i := range before {
		if before[i].X != after[i].X || before[i].Y != after[i].Y {
			t.Fatalf("dimmed ball %d moved", before[i].ID)
		}
	}
}

func TestFrozenBallsIgnoredByCollisions(t *testing.T) {
	m, _, _ := newTestMachine(1, func(cfg *config.Config) {
		still(cfg)
		cfg.Draw.Max = 2
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Pause()

	a, b := m.Particle(1), m.Particle(2)
	a.X, a.Y, a.VX, a.VY = 250, 250, 0, 0
	b.X, b.Y, b.VX, b.VY = 260, 250, 0, 0
	m.Pick(2)

	m.Step()

	if b.X != 260 || b.Y != 250 {
		t.Errorf("picked ball was pushed to (%f, %f)", b.X, b.Y)
	}
	if a.X != 250 {
		t.Errorf("active ball should not collide with a picked one, x=%f", a.X)
	}
}

func TestWindPushesUp(t *testing.T) {
	setup := func() (*Machine, *Particle) {
		m, _, _ := newTestMachine(1, func(cfg *config.Config) {
			cfg.Machine.Jitter = 0
			cfg.Machine.WindJitterX = 0
			cfg.Machine.WindJitterY = 0
			cfg.Draw.Max = 1
			cfg.Draw.Count = 1
		})
		m.Spawn()
		m.Pause()
		c := m.Config()
		p := m.Particle(1)
		p.X, p.Y, p.VX, p.VY = c.CenterX, c.CenterY+c.Radius-c.BallRadius-1, 0, 0
		return m, p
	}

	calm, pc := setup()
	calm.Step()
	if want := 0.5 * 0.98; math.Abs(pc.VY-want) > tol {
		t.Errorf("calm vy = %f, want %f", pc.VY, want)
	}

	windy, pw := setup()
	windy.ActivateWind()
	windy.Step()
	strength := (225*0.8 - 25) / 225
	if want := (0.5 - 5*strength*4) * 0.98; math.Abs(pw.VY-want) > tol {
		t.Errorf("windy vy = %f, want %f", pw.VY, want)
	}
}

func TestWindIgnoredAboveBand(t *testing.T) {
	m, _, _ := newTestMachine(1, func(cfg *config.Config) {
		still(cfg)
		cfg.Draw.Max = 1
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Pause()
	p := m.Particle(1)
	p.X, p.Y, p.VX, p.VY = 250, 100, 0, 0

	m.ActivateWind()
	m.Step()
	if p.VY != 0 {
		t.Errorf("ball above the wind band should feel no wind, vy=%f", p.VY)
	}
}

func TestActivateWindIsIdempotent(t *testing.T) {
	m, loop, rec := newTestMachine(1, nil)

	if !m.ActivateWind() {
		t.Fatal("first activation should start wind")
	}
	loop.Advance(time.Second)
	if m.ActivateWind() {
		t.Error("activation during a gust should be a no-op")
	}
	if got := m.WindRemaining(); got != time.Second {
		t.Errorf("expected 1s of wind left, got %v", got)
	}

	loop.Advance(999 * time.Millisecond)
	if !m.WindActive() {
		t.Error("wind should still blow just before 2s")
	}
	loop.Advance(time.Millisecond)
	if m.WindActive() {
		t.Error("wind should clear exactly 2s after the first activation")
	}
	if rec.WindChanges != 2 {
		t.Errorf("expected on+off wind events, got %d", rec.WindChanges)
	}
	if m.WindRemaining() != 0 {
		t.Error("expected no wind remaining")
	}

	if !m.ActivateWind() {
		t.Error("wind should be re-activatable after it clears")
	}
}

func TestFrameLoop(t *testing.T) {
	m, loop, _ := newTestMachine(1, nil)
	m.Spawn()

	loop.Advance(time.Second)
	if m.Ticks() != 60 {
		t.Errorf("expected 60 ticks in 1s, got %d", m.Ticks())
	}

	m.Pause()
	loop.Advance(time.Second)
	if m.Ticks() != 60 {
		t.Errorf("paused machine ticked: %d", m.Ticks())
	}

	m.Start()
	m.Start()
	loop.Advance(m.frame)
	if m.Ticks() != 61 {
		t.Errorf("double start should schedule one loop, ticks=%d", m.Ticks())
	}
}

func TestFrameLoopStopsWhenAllFrozen(t *testing.T) {
	m, loop, _ := newTestMachine(1, nil)
	m.Spawn()
	m.DimAll()

	loop.Advance(100 * time.Millisecond)
	if m.Running() {
		t.Error("loop should stop once no ball is active")
	}
}

func TestSpawnRestartsBatch(t *testing.T) {
	m, loop, rec := newTestMachine(2, nil)
	m.Spawn()
	m.DimAll()
	m.Pick(7)
	m.Fade(7)
	m.Pause()

	m.Spawn()
	loop.Advance(m.frame)

	if m.ActiveCount() != 45 {
		t.Errorf("expected 45 active balls, got %d", m.ActiveCount())
	}
	if !rec.Visible[7] || rec.States[7] != render.Active {
		t.Error("sink should see ball 7 active and visible after respawn")
	}
	if !m.Running() {
		t.Error("respawn should restart the loop")
	}
}

func TestStateMutators(t *testing.T) {
	m, _, rec := newTestMachine(1, nil)
	m.Spawn()

	m.DimAll()
	if rec.CountState(render.Dimmed) != 45 {
		t.Errorf("expected 45 dimmed, got %d", rec.CountState(render.Dimmed))
	}
	if !m.Pick(12) {
		t.Error("pick of existing ball should succeed")
	}
	if m.Pick(99) {
		t.Error("pick of missing ball should report false")
	}
	m.Fade(12)
	m.Fade(99)
	if p := m.Particle(12); p.State != render.Picked || p.Visible {
		t.Errorf("ball 12 = %+v, want picked and hidden", *p)
	}

	m.ResetFlags()
	if rec.CountState(render.Active) != 45 || !rec.Visible[12] {
		t.Error("reset should restore every ball")
	}
}

func TestSeededMachinesReplay(t *testing.T) {
	a, _, _ := newTestMachine(42, nil)
	b, _, _ := newTestMachine(42, nil)
	a.Spawn()
	b.Spawn()
	a.ActivateWind()
	b.ActivateWind()
	for i := 0; i < 200; i++ {
		a.Step()
		b.Step()
	}
	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("ball %d diverged between identical seeds", pa[i].ID)
		}
	}
}

func TestKineticEnergy(t *testing.T) {
	m, _, _ := newTestMachine(1, func(cfg *config.Config) {
		cfg.Draw.Max = 2
		cfg.Draw.Count = 1
	})
	m.Spawn()
	m.Particle(1).VX, m.Particle(1).VY = 3, 4
	m.Particle(2).VX, m.Particle(2).VY = 1, 0

	if e := m.KineticEnergy(); math.Abs(e-13) > tol {
		t.Errorf("expected energy 13, got %f", e)
	}
	m.Pick(1)
	if e := m.KineticEnergy(); math.Abs(e-0.5) > tol {
		t.Errorf("expected energy 0.5 with ball 1 frozen, got %f", e)
	}
}
