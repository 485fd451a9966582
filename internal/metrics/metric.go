// Package metrics measures the drum while it runs and counts draws.
//
// Sample metrics implement [Metric] and are fed a particle snapshot once per
// frame. [Frequency] tallies drawn numbers, and [Prometheus] exports live
// counters for a running machine.
package metrics

import "github.com/san-kum/lottosim/internal/machine"

type Metric interface {
	Name() string
	Observe(ps []machine.Particle)
	Value() float64
	Reset()
}

// ObserveAll feeds one snapshot to every metric.
func ObserveAll(ms []Metric, ps []machine.Particle) {
	for _, m := range ms {
		m.Observe(ps)
	}
}
