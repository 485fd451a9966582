package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/lottosim/internal/render"
)

const namespace = "lottosim"

// Prometheus is a render sink that turns machine events into counters. Round
// level figures are fed separately through ObserveRound.
type Prometheus struct {
	render.Nop

	Registry *prometheus.Registry

	draws       prometheus.Counter
	numbers     *prometheus.CounterVec
	winds       prometheus.Counter
	picks       prometheus.Counter
	shakes      prometheus.Counter
	triggerOpen prometheus.Gauge
	energy      prometheus.Gauge
	revealTime  prometheus.Histogram
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		Registry: prometheus.NewRegistry(),
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reveal",
			Name:      "draws_total",
			Help:      "Total number of finished draws.",
		}),
		numbers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reveal",
				Name:      "number_drawn_total",
				Help:      "How often each number has been drawn.",
			},
			[]string{"number"},
		),
		winds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "wind_activations_total",
			Help:      "Total number of gusts blown through the drum.",
		}),
		picks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "picks_total",
			Help:      "Total number of balls pulled from the drum.",
		}),
		shakes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "shakes_total",
			Help:      "Total number of shake cues.",
		}),
		triggerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reveal",
			Name:      "trigger_enabled",
			Help:      "1 while a new draw can be started.",
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "kinetic_energy",
			Help:      "Kinetic energy of the active balls at the last sample.",
		}),
		revealTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reveal",
			Name:      "duration_seconds",
			Help:      "Scheduler time from trigger to reset.",
			Buckets:   prometheus.LinearBuckets(2, 2, 8),
		}),
	}
	p.triggerOpen.Set(1)

	p.Registry.MustRegister(
		p.draws,
		p.numbers,
		p.winds,
		p.picks,
		p.shakes,
		p.triggerOpen,
		p.energy,
		p.revealTime,
	)
	return p
}

func (p *Prometheus) OnParticleStateChanged(_ int, state render.BallState) {
	if state == render.Picked {
		p.picks.Inc()
	}
}

func (p *Prometheus) OnWindChanged(active bool) {
	if active {
		p.winds.Inc()
	}
}

func (p *Prometheus) OnShake() { p.shakes.Inc() }

func (p *Prometheus) OnTriggerChanged(enabled bool) {
	if enabled {
		p.triggerOpen.Set(1)
	} else {
		p.triggerOpen.Set(0)
	}
}

// ObserveRound records a finished draw.
func (p *Prometheus) ObserveRound(numbers []int, took time.Duration) {
	p.draws.Inc()
	for _, n := range numbers {
		p.numbers.WithLabelValues(strconv.Itoa(n)).Inc()
	}
	p.revealTime.Observe(took.Seconds())
}

func (p *Prometheus) ObserveEnergy(e float64) { p.energy.Set(e) }

// Handler exposes the registry for scraping.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})
}
