package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lottosim/internal/analysis"
	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/metrics"
)

// Registry names the machine parameters that can be swept and the metrics a
// run reports.
type Registry struct {
	params map[string]func(*config.MachineConfig, float64)
}

func NewRegistry() *Registry {
	r := &Registry{
		params: make(map[string]func(*config.MachineConfig, float64)),
	}

	r.params["gravity"] = func(c *config.MachineConfig, v float64) { c.Gravity = v }
	r.params["wind_force"] = func(c *config.MachineConfig, v float64) { c.WindForce = v }
	r.params["wind_multiplier"] = func(c *config.MachineConfig, v float64) { c.WindMultiplier = v }
	r.params["wind_band"] = func(c *config.MachineConfig, v float64) { c.WindBand = v }
	r.params["jitter"] = func(c *config.MachineConfig, v float64) { c.Jitter = v }
	r.params["friction"] = func(c *config.MachineConfig, v float64) { c.Friction = v }
	r.params["damping"] = func(c *config.MachineConfig, v float64) { c.Damping = v }
	r.params["exchange"] = func(c *config.MachineConfig, v float64) { c.Exchange = v }

	return r
}

// Apply sets the named parameter on c.
func (r *Registry) Apply(c *config.MachineConfig, name string, value float64) error {
	fn, ok := r.params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	fn(c, value)
	return nil
}

func (r *Registry) ListParams() []string {
	names := make([]string, 0, len(r.params))
	for name := range r.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are sampled once per frame during a run.
func (r *Registry) DefaultMetrics(c config.MachineConfig) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewEnergy(),
		metrics.NewSpeed(),
		metrics.NewContainment(c),
	}
}

func (r *Registry) occupancy(c config.MachineConfig) *analysis.Occupancy {
	return analysis.NewOccupancy(c, 10)
}
