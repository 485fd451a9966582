package metrics

import (
	"math"

	"github.com/san-kum/lottosim/internal/machine"
)

// Energy is the mean kinetic energy of the active balls per sample, each ball
// counted as unit mass.
type Energy struct {
	name    string
	total   float64
	peak    float64
	last    float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(ps []machine.Particle) {
	ke := 0.0
	for i := range ps {
		p := &ps[i]
		if p.Frozen() {
			continue
		}
		ke += 0.5 * (p.VX*p.VX + p.VY*p.VY)
	}
	e.last = ke
	e.peak = math.Max(e.peak, ke)
	e.total += ke
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Peak() float64 { return e.peak }
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.total = 0
	e.peak = 0
	e.last = 0
	e.samples = 0
}
