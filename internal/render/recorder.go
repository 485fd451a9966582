package render

type Position struct{ X, Y float64 }

// Recorder keeps the latest value of every event stream plus a count per
// event kind. It is not safe for concurrent use.
type Recorder struct {
	Positions   map[int]Position
	States      map[int]BallState
	Visible     map[int]bool
	Wind        bool
	Trigger     bool
	Center      []int
	CenterShown bool
	Results     []int
	Tokens      []int

	Moves          int
	StateChanges   int
	WindChanges    int
	Shakes         int
	TriggerChanges int
	Reveals        int
}

func NewRecorder() *Recorder {
	return &Recorder{
		Positions: make(map[int]Position),
		States:    make(map[int]BallState),
		Visible:   make(map[int]bool),
		Trigger:   true,
	}
}

func (r *Recorder) OnParticleMoved(id int, x, y float64) {
	r.Positions[id] = Position{x, y}
	r.Moves++
}

func (r *Recorder) OnParticleStateChanged(id int, state BallState) {
	r.States[id] = state
	r.StateChanges++
}

func (r *Recorder) OnParticleVisibility(id int, visible bool) { r.Visible[id] = visible }

func (r *Recorder) OnWindChanged(active bool) {
	r.Wind = active
	r.WindChanges++
}

func (r *Recorder) OnShake() { r.Shakes++ }

func (r *Recorder) OnTriggerChanged(enabled bool) {
	r.Trigger = enabled
	r.TriggerChanges++
}

func (r *Recorder) OnCenterDisplay(numbers []int, visible bool) {
	r.Center = append(r.Center[:0], numbers...)
	r.CenterShown = visible
}

func (r *Recorder) OnResultsRevealed(numbers []int) {
	r.Results = append([]int(nil), numbers...)
	r.Tokens = r.Tokens[:0]
	r.Reveals++
}

func (r *Recorder) OnResultToken(index, number int) { r.Tokens = append(r.Tokens, number) }

// CountState returns how many balls were last reported in the given state.
func (r *Recorder) CountState(state BallState) int {
	n := 0
	for _, s := range r.States {
		if s == state {
			n++
		}
	}
	return n
}
