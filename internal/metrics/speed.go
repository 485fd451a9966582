package metrics

import "github.com/san-kum/lottosim/internal/machine"

// Speed is the mean speed of the active balls.
type Speed struct {
	name    string
	sum     float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{
		name: "speed",
	}
}

func (s *Speed) Name() string {
	return s.name
}

func (s *Speed) Observe(ps []machine.Particle) {
	for i := range ps {
		if ps[i].Frozen() {
			continue
		}
		s.sum += ps[i].Speed()
		s.samples++
	}
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.sum = 0
	s.samples = 0
}
