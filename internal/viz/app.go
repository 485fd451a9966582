package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/metrics"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/reveal"
)

const (
	canvasWidth     = 50
	canvasHeight    = 25
	energyCapacity  = 40
	historyRows     = 5
	maxTickInterval = 250 * time.Millisecond
)

const (
	stateMenu = iota
	stateMachine
)

type TickMsg time.Time

// Options configures the terminal app. Only Config is required.
type Options struct {
	Config *config.Config

	// ShowMenu starts on the preset picker instead of the machine.
	ShowMenu bool
	History  *history.Log
	Logger   *logrus.Logger
	Metrics  *metrics.Prometheus
	Sinks    []render.Sink
	OnRound  func(reveal.Result)
}

// Model is the bubbletea model for the live machine.
type Model struct {
	opts    Options
	state   int
	cursor  int
	presets []string

	s      *session
	canvas *Canvas
	energy []float64

	notice     string
	confirming bool
	showHelp   bool
	shaking    bool
	last       time.Time
}

func New(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	m := Model{
		opts:    opts,
		presets: config.ListPresets(),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		energy:  make([]float64, 0, energyCapacity),
	}
	if !opts.ShowMenu {
		m.start(opts.Config)
	}
	return m
}

func (m *Model) start(cfg *config.Config) {
	m.last = time.Now()
	m.s = newSession(cfg, m.opts, m.last)
	m.state = stateMachine
	m.energy = m.energy[:0]
}

func (m Model) tick() tea.Cmd {
	frame := time.Second / 60
	if m.s != nil {
		frame = m.s.cfg.Timing.Frame()
	}
	return tea.Tick(frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.state == stateMenu {
		return nil
	}
	return m.tick()
}

// Update handles input events and advances the machine clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.updateMenu(msg)
		}
		return m.updateMachine(msg)
	case TickMsg:
		if m.state != stateMachine {
			return m, nil
		}
		m.advance(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance(now time.Time) {
	elapsed := now.Sub(m.last)
	m.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxTickInterval {
		elapsed = maxTickInterval
	}
	m.s.loop.Advance(elapsed)
	m.shaking = m.s.screen.Shaking()

	e := m.s.machine.KineticEnergy()
	if m.opts.Metrics != nil {
		m.opts.Metrics.ObserveEnergy(e)
	}
	m.energy = append(m.energy, e)
	if len(m.energy) > energyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m Model) updateMachine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.confirming {
		m.confirming = false
		m.notice = ""
		if key == "y" || key == "Y" {
			m.clearHistory()
		}
		return m, nil
	}

	m.notice = ""
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "enter":
		if !m.s.ctrl.Trigger() {
			m.notice = "draw in progress"
		}
	case "w":
		if !m.s.tap() && !m.s.ctrl.Idle() {
			m.notice = "draw in progress"
		}
	case "c":
		m.askClear()
	case "m":
		if m.s.ctrl.Idle() {
			m.state = stateMenu
		}
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// askClear mirrors history.Log.Clear across two key presses: the notice for
// an empty log, or a prompt answered by the next key.
func (m *Model) askClear() {
	if m.opts.History == nil {
		return
	}
	if m.opts.History.Len() == 0 {
		m.notice = history.EmptyNotice
		return
	}
	m.confirming = true
	m.notice = history.ConfirmPrompt + " [y/N]"
}

type acceptPrompter struct{}

func (acceptPrompter) Notify(string)       {}
func (acceptPrompter) Confirm(string) bool { return true }

func (m *Model) clearHistory() {
	if _, err := m.opts.History.Clear(acceptPrompter{}); err != nil {
		m.notice = err.Error()
		return
	}
	m.s.loadHistory()
}

// View renders the TUI interface.
func (m Model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}

	m.s.screen.Draw(m.canvas)
	drum := m.canvas.String()
	if m.shaking {
		drum = shift(drum)
	}
	drumView := canvasStyle.Render(drum)

	var b strings.Builder
	theme := CurrentTheme
	cfg := m.s.cfg

	b.WriteString(titleStyle.Foreground(theme.Accent).Render(
		fmt.Sprintf("LOTTO %d/%d", cfg.Draw.Count, cfg.Draw.Max)) + "\n\n")

	status := lipgloss.NewStyle().Foreground(theme.Primary).Render("READY")
	if !m.s.ctrl.Idle() {
		status = lipgloss.NewStyle().Foreground(theme.Warning).Render(
			"DRAWING " + strings.ToUpper(m.s.ctrl.Stage()))
	}
	b.WriteString(labelStyle.Render("Status") + status + "\n")

	wind := valueStyle.Render("calm")
	if m.s.screen.Wind {
		wind = lipgloss.NewStyle().Foreground(theme.Wind).Render(
			fmt.Sprintf("blowing %.1fs", m.s.machine.WindRemaining().Seconds()))
	}
	b.WriteString(labelStyle.Render("Wind") + wind + "\n")
	b.WriteString(labelStyle.Render("Balls") + valueStyle.Render(
		fmt.Sprintf("%d active", m.s.machine.ActiveCount())) + "\n")
	b.WriteString(labelStyle.Render("Progress") + ProgressBar(m.s.progress(), 20) + "\n")
	b.WriteString(labelStyle.Render("Energy") + SparklineChart(m.energy, 20) + "\n\n")

	center := " "
	if m.s.screen.CenterShown {
		center = BallRow(m.s.screen.Center)
	}
	b.WriteString(labelStyle.Render("Picked") + center + "\n")
	b.WriteString(labelStyle.Render("Result") + BallRow(m.s.screen.Tokens) + "\n\n")

	b.WriteString(Separator(40) + "\n")
	b.WriteString(m.viewHistory())

	if m.notice != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(m.notice) + "\n")
	}
	if m.showHelp {
		b.WriteString(helpStyle.Render("\nspace/enter  draw\nw            blow wind\nc            clear history\nm            machine menu\nt            cycle theme\nq            quit"))
	} else {
		b.WriteString(helpStyle.Render("\nSP:Draw W:Wind C:Clear T:Theme ?:Help Q:Quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, drumView, panelStyle.Render(b.String()))
}

func (m Model) viewHistory() string {
	if m.opts.History == nil {
		return ""
	}
	entries := m.s.entries
	if len(entries) == 0 {
		return menuInfo.Render(history.NoEntries) + "\n"
	}
	var b strings.Builder
	for i, e := range entries {
		if i == historyRows {
			b.WriteString(menuInfo.Render(fmt.Sprintf("… %d more", len(entries)-historyRows)) + "\n")
			break
		}
		b.WriteString(menuInfo.Render(e.Date) + "\n" + BallRow(e.Numbers) + "\n")
	}
	return b.String()
}

// shift nudges every line one column right, for the shake cue.
func shift(s string) string {
	return " " + strings.ReplaceAll(s, "\n", "\n ")
}
