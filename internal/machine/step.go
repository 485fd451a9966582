package machine

import "math"

const (
	// containEpsilon absorbs rounding when a ball is clamped onto the wall.
	containEpsilon = 1e-9

	// overlapSlop is the deepest overlap still counted as touching.
	overlapSlop = 1e-7

	// relaxPad leaves a small gap between separated balls so relaxation
	// settles in a finite number of sweeps.
	relaxPad = 1e-3

	relaxIterations      = 24
	spawnRelaxIterations = 2000
)

// Step advances every active ball by one frame and publishes the new
// positions. Frozen balls neither move nor take part in collisions.
func (m *Machine) Step() {
	m.ticks++
	c := &m.cfg

	for _, p := range m.particles {
		p.px, p.py = p.X, p.Y
	}

	for _, p := range m.particles {
		if p.Frozen() {
			continue
		}

		p.VY += c.Gravity

		if m.wind {
			fromBottom := (c.CenterY + c.Radius) - p.Y
			strength := math.Max(0, (c.Radius*c.WindBand-fromBottom)/c.Radius)
			p.VY -= c.WindForce * strength * c.WindMultiplier

			p.VX += (m.rng.Float64() - 0.5) * c.WindJitterX
			p.VY += (m.rng.Float64() - 0.5) * c.WindJitterY
		}

		p.VX += (m.rng.Float64() - 0.5) * c.Jitter
		p.VY += (m.rng.Float64() - 0.5) * c.Jitter

		p.VX *= c.Friction
		p.VY *= c.Friction

		p.X += p.VX
		p.Y += p.VY

		m.bounce(p)

		for _, o := range m.particles {
			if o == p || o.Frozen() {
				continue
			}
			m.collide(p, o)
		}
	}

	if !m.relax(relaxIterations) {
		m.revert()
	}
	for _, p := range m.particles {
		if !p.Frozen() {
			m.sink.OnParticleMoved(p.ID, p.X, p.Y)
		}
	}
}

// bounce puts a ball that crossed the wall back on it and reflects its
// velocity about the wall normal, losing energy on the way.
func (m *Machine) bounce(p *Particle) bool {
	c := &m.cfg
	dx, dy := p.X-c.CenterX, p.Y-c.CenterY
	dist := math.Hypot(dx, dy)
	limit := c.Radius - p.Radius
	if dist <= limit {
		return false
	}

	nx, ny := dx/dist, dy/dist
	p.X = c.CenterX + nx*limit
	p.Y = c.CenterY + ny*limit

	dot := p.VX*nx + p.VY*ny
	p.VX = (p.VX - 2*dot*nx) * c.Damping
	p.VY = (p.VY - 2*dot*ny) * c.Damping
	return true
}

// collide separates two overlapping balls by half the overlap each and swaps
// their velocities, scaled by the exchange factor. Mass plays no part.
func (m *Machine) collide(a, b *Particle) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return false
	}

	nx, ny := 1.0, 0.0
	if dist > 0 {
		nx, ny = dx/dist, dy/dist
	}
	half := (minDist - dist) * 0.5
	a.X -= nx * half
	a.Y -= ny * half
	b.X += nx * half
	b.Y += ny * half

	k := m.cfg.Exchange
	a.VX, b.VX = b.VX*k, a.VX*k
	a.VY, b.VY = b.VY*k, a.VY*k
	return true
}

func (m *Machine) contain(p *Particle) {
	c := &m.cfg
	dx, dy := p.X-c.CenterX, p.Y-c.CenterY
	dist := math.Hypot(dx, dy)
	limit := c.Radius - p.Radius
	if dist <= limit+containEpsilon {
		return
	}
	scale := limit / dist
	p.X = c.CenterX + dx*scale
	p.Y = c.CenterY + dy*scale
}

// relax alternates wall containment with position-only pair separation until
// no two active balls overlap or the sweeps run out. Velocities are left as
// the collision pass set them. It reports whether the drum ended clear.
func (m *Machine) relax(iterations int) bool {
	for i := 0; ; i++ {
		for _, p := range m.particles {
			if !p.Frozen() {
				m.contain(p)
			}
		}
		if len(m.overlaps()) == 0 {
			return true
		}
		if i == iterations {
			return false
		}

		for a, p := range m.particles {
			if p.Frozen() {
				continue
			}
			for _, o := range m.particles[a+1:] {
				if !o.Frozen() {
					separate(p, o)
				}
			}
		}
	}
}

// revert puts balls that still overlap back where they started the tick,
// spreading to each ball they then collide with. Starting positions were
// clear, so this always ends clear once every involved ball is restored.
func (m *Machine) revert() {
	restored := make(map[*Particle]bool)
	for {
		pairs := m.overlaps()
		if len(pairs) == 0 {
			return
		}
		progress := false
		for _, pair := range pairs {
			for _, p := range pair {
				if restored[p] {
					continue
				}
				p.X, p.Y = p.px, p.py
				restored[p] = true
				progress = true
			}
		}
		if !progress {
			return
		}
	}
}

// overlaps lists every pair of active balls closer than their radii allow.
func (m *Machine) overlaps() [][2]*Particle {
	var pairs [][2]*Particle
	for a, p := range m.particles {
		if p.Frozen() {
			continue
		}
		for _, o := range m.particles[a+1:] {
			if o.Frozen() {
				continue
			}
			if p.DistanceTo(o) < p.Radius+o.Radius-overlapSlop {
				pairs = append(pairs, [2]*Particle{p, o})
			}
		}
	}
	return pairs
}

func separate(a, b *Particle) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return
	}

	nx, ny := 1.0, 0.0
	if dist > 0 {
		nx, ny = dx/dist, dy/dist
	}
	half := (minDist - dist + relaxPad) * 0.5
	a.X -= nx * half
	a.Y -= ny * half
	b.X += nx * half
	b.Y += ny * half
}
