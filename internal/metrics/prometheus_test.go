package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lottosim/internal/render"
)

func TestPrometheusCountsEvents(t *testing.T) {
	p := NewPrometheus()

	p.OnWindChanged(true)
	p.OnWindChanged(false)
	p.OnParticleStateChanged(3, render.Dimmed)
	p.OnParticleStateChanged(3, render.Picked)
	p.OnParticleStateChanged(9, render.Picked)
	p.OnShake()
	p.OnTriggerChanged(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.winds))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.picks))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.shakes))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.triggerOpen))

	p.OnTriggerChanged(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.triggerOpen))
}

func TestPrometheusObserveRound(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRound([]int{1, 2, 3, 4, 5, 6}, 9200*time.Millisecond)
	p.ObserveRound([]int{1, 10, 20, 30, 40, 45}, 9200*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.draws))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.numbers.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.numbers.WithLabelValues("45")))
	assert.Equal(t, 11, testutil.CollectAndCount(p.numbers))
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRound([]int{7}, 3*time.Second)
	p.ObserveEnergy(12.5)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `lottosim_reveal_number_drawn_total{number="7"} 1`)
	assert.Contains(t, text, "lottosim_machine_kinetic_energy 12.5")
	assert.Contains(t, text, "lottosim_reveal_duration_seconds_count 1")
}
