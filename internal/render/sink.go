package render

// BallState is the physics/visibility flag of a ball.
type BallState uint8

const (
	Active BallState = iota
	Dimmed
	Picked
)

func (s BallState) String() string {
	switch s {
	case Active:
		return "active"
	case Dimmed:
		return "dimmed"
	case Picked:
		return "picked"
	default:
		return "unknown"
	}
}

// Frozen reports whether a ball in this state is excluded from physics.
func (s BallState) Frozen() bool { return s != Active }

type Sink interface {
	OnParticleMoved(id int, x, y float64)
	OnParticleStateChanged(id int, state BallState)
	OnParticleVisibility(id int, visible bool)
	OnWindChanged(active bool)
	OnShake()
	OnTriggerChanged(enabled bool)
	OnCenterDisplay(numbers []int, visible bool)
	OnResultsRevealed(numbers []int)
	OnResultToken(index, number int)
}

// Nop ignores every event. Embed it to implement only the events you need.
type Nop struct{}

func (Nop) OnParticleMoved(int, float64, float64) {}
func (Nop) OnParticleStateChanged(int, BallState) {}
func (Nop) OnParticleVisibility(int, bool)        {}
func (Nop) OnWindChanged(bool)                    {}
func (Nop) OnShake()                              {}
func (Nop) OnTriggerChanged(bool)                 {}
func (Nop) OnCenterDisplay([]int, bool)           {}
func (Nop) OnResultsRevealed([]int)               {}
func (Nop) OnResultToken(int, int)                {}

// Multi forwards every event to each sink in order.
type Multi []Sink

func (m Multi) OnParticleMoved(id int, x, y float64) {
	for _, s := range m {
		s.OnParticleMoved(id, x, y)
	}
}

func (m Multi) OnParticleStateChanged(id int, state BallState) {
	for _, s := range m {
		s.OnParticleStateChanged(id, state)
	}
}

func (m Multi) OnParticleVisibility(id int, visible bool) {
	for _, s := range m {
		s.OnParticleVisibility(id, visible)
	}
}

func (m Multi) OnWindChanged(active bool) {
	for _, s := range m {
		s.OnWindChanged(active)
	}
}

func (m Multi) OnShake() {
	for _, s := range m {
		s.OnShake()
	}
}

func (m Multi) OnTriggerChanged(enabled bool) {
	for _, s := range m {
		s.OnTriggerChanged(enabled)
	}
}

func (m Multi) OnCenterDisplay(numbers []int, visible bool) {
	for _, s := range m {
		s.OnCenterDisplay(numbers, visible)
	}
}

func (m Multi) OnResultsRevealed(numbers []int) {
	for _, s := range m {
		s.OnResultsRevealed(numbers)
	}
}

func (m Multi) OnResultToken(index, number int) {
	for _, s := range m {
		s.OnResultToken(index, number)
	}
}
