package viz

import (
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/render"
)

// shakeFrames is how many redraws the drum stays offset after a shake cue.
const shakeFrames = 18

type ballView struct {
	x, y    float64
	state   render.BallState
	visible bool
}

// Screen mirrors everything the machine and the controller publish. It is
// the render sink behind the terminal UI and only ever touched from the
// bubbletea update loop.
type Screen struct {
	drum  config.MachineConfig
	balls map[int]*ballView

	Wind        bool
	Trigger     bool
	Center      []int
	CenterShown bool
	Results     []int
	Tokens      []int

	shake int
}

func NewScreen(drum config.MachineConfig) *Screen {
	return &Screen{
		drum:    drum,
		balls:   make(map[int]*ballView),
		Trigger: true,
	}
}

func (s *Screen) ball(id int) *ballView {
	b := s.balls[id]
	if b == nil {
		b = &ballView{visible: true}
		s.balls[id] = b
	}
	return b
}

func (s *Screen) OnParticleMoved(id int, x, y float64) {
	b := s.ball(id)
	b.x, b.y = x, y
}

func (s *Screen) OnParticleStateChanged(id int, state render.BallState) { s.ball(id).state = state }
func (s *Screen) OnParticleVisibility(id int, visible bool)             { s.ball(id).visible = visible }
func (s *Screen) OnWindChanged(active bool)                             { s.Wind = active }
func (s *Screen) OnShake()                                              { s.shake = shakeFrames }
func (s *Screen) OnTriggerChanged(enabled bool)                         { s.Trigger = enabled }

func (s *Screen) OnCenterDisplay(numbers []int, visible bool) {
	s.Center = append(s.Center[:0], numbers...)
	s.CenterShown = visible
}

func (s *Screen) OnResultsRevealed(numbers []int) {
	s.Results = append(s.Results[:0], numbers...)
	s.Tokens = s.Tokens[:0]
}

func (s *Screen) OnResultToken(_, number int) { s.Tokens = append(s.Tokens, number) }

// Shaking reports whether a shake cue is still playing and counts it down.
func (s *Screen) Shaking() bool {
	if s.shake == 0 {
		return false
	}
	s.shake--
	return true
}

// VisibleBalls lists the numbers of balls currently drawn, ascending.
func (s *Screen) VisibleBalls() []int {
	ids := make([]int, 0, len(s.balls))
	for id, b := range s.balls {
		if b.visible {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Draw paints the drum onto c, scaled to fit the canvas.
func (s *Screen) Draw(c *Canvas) {
	c.Clear()
	w, h := c.Dots()
	size := math.Min(float64(w), float64(h)) - 1
	scale := size / (2 * s.drum.Radius)
	ox := s.drum.CenterX - s.drum.Radius
	oy := s.drum.CenterY - s.drum.Radius
	project := func(x, y float64) (int, int) {
		return int(math.Round((x - ox) * scale)), int(math.Round((y - oy) * scale))
	}

	cx, cy := project(s.drum.CenterX, s.drum.CenterY)
	c.DrawCircle(cx, cy, int(s.drum.Radius*scale))

	if s.Wind {
		bottom := int((2*s.drum.Radius - 4) * scale)
		for dx := -3; dx <= 3; dx++ {
			x := cx + dx*int(s.drum.Radius*scale)/5
			c.DrawLine(x, bottom, x, bottom-int(s.drum.Radius*scale*0.4))
		}
	}

	r := int(math.Max(1, s.drum.BallRadius*scale))
	ids := make([]int, 0, len(s.balls))
	for id := range s.balls {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var picked []int
	for _, id := range ids {
		b := s.balls[id]
		if !b.visible {
			continue
		}
		x, y := project(b.x, b.y)
		switch b.state {
		case render.Active:
			c.FillCircle(x, y, r-1)
		case render.Dimmed:
			c.DrawCircle(x, y, r-1)
		case render.Picked:
			c.FillCircle(x, y, r)
			picked = append(picked, id)
		}
	}
	for _, id := range picked {
		b := s.balls[id]
		x, y := project(b.x, b.y)
		c.Label(x, y, strconv.Itoa(id))
	}

	if s.CenterShown && len(s.Center) > 0 {
		c.Label(cx, cy, PlainRow(s.Center))
	}
}
