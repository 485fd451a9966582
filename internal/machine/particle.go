package machine

import (
	"math"

	"github.com/san-kum/lottosim/internal/render"
)

type Particle struct {
	ID      int
	X, Y    float64
	VX, VY  float64
	Radius  float64
	State   render.BallState
	Visible bool

	// position at the start of the current tick
	px, py float64
}

func (p *Particle) Frozen() bool { return p.State.Frozen() }

func (p *Particle) Speed() float64 { return math.Hypot(p.VX, p.VY) }

// DistanceTo is the center to center distance.
func (p *Particle) DistanceTo(o *Particle) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}
