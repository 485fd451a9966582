package metrics

import (
	"math"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/machine"
)

// Containment is the fraction of samples in which every active ball was
// fully inside the drum.
type Containment struct {
	name       string
	cx, cy     float64
	radius     float64
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(c config.MachineConfig) *Containment {
	return &Containment{
		name:      "containment",
		cx:        c.CenterX,
		cy:        c.CenterY,
		radius:    c.Radius,
		tolerance: 1e-6,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(ps []machine.Particle) {
	c.samples++
	for i := range ps {
		p := &ps[i]
		if p.Frozen() {
			continue
		}
		if math.Hypot(p.X-c.cx, p.Y-c.cy)+p.Radius > c.radius+c.tolerance {
			c.violations++
			break
		}
	}
}

func (c *Containment) Violations() int { return c.violations }

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
