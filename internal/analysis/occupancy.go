package analysis

import (
	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/machine"
)

// Occupancy bins active ball centers into a square grid laid over the drum.
type Occupancy struct {
	Bins   int
	Counts [][]int

	minX, minY float64
	span       float64
	cy         float64
	upper      int
	total      int
}

func NewOccupancy(c config.MachineConfig, bins int) *Occupancy {
	if bins < 1 {
		bins = 1
	}
	counts := make([][]int, bins)
	for i := range counts {
		counts[i] = make([]int, bins)
	}
	return &Occupancy{
		Bins:   bins,
		Counts: counts,
		minX:   c.CenterX - c.Radius,
		minY:   c.CenterY - c.Radius,
		span:   2 * c.Radius,
		cy:     c.CenterY,
	}
}

func (o *Occupancy) cell(v, min float64) int {
	i := int((v - min) / o.span * float64(o.Bins))
	if i < 0 {
		return 0
	}
	if i >= o.Bins {
		return o.Bins - 1
	}
	return i
}

func (o *Occupancy) Observe(ps []machine.Particle) {
	for i := range ps {
		p := &ps[i]
		if p.Frozen() {
			continue
		}
		o.Counts[o.cell(p.Y, o.minY)][o.cell(p.X, o.minX)]++
		if p.Y < o.cy {
			o.upper++
		}
		o.total++
	}
}

func (o *Occupancy) Total() int { return o.total }

// UpperFraction is the share of samples with the ball above the drum center.
func (o *Occupancy) UpperFraction() float64 {
	if o.total == 0 {
		return 0
	}
	return float64(o.upper) / float64(o.total)
}

// Rows returns the grid normalised to the busiest cell, top row first.
func (o *Occupancy) Rows() [][]float64 {
	peak := 0
	for _, row := range o.Counts {
		for _, n := range row {
			if n > peak {
				peak = n
			}
		}
	}
	out := make([][]float64, o.Bins)
	for y, row := range o.Counts {
		out[y] = make([]float64, o.Bins)
		if peak == 0 {
			continue
		}
		for x, n := range row {
			out[y][x] = float64(n) / float64(peak)
		}
	}
	return out
}
