package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(44)

	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	menuItem   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	menuInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	sparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	sparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	sparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// BallToken renders one drawn number as a colored chip.
func BallToken(n int) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#111111")).
		Background(CurrentTheme.BandColor(n)).
		Render(fmt.Sprintf(" %2d ", n))
}

// BallRow renders numbers as chips separated by a space. An empty row keeps
// its height so the layout does not jump.
func BallRow(numbers []int) string {
	if len(numbers) == 0 {
		return " "
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = BallToken(n)
	}
	return strings.Join(parts, " ")
}

// PlainRow is BallRow without color, for logs and non-terminal output.
func PlainRow(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%2d", n)
	}
	return strings.Join(parts, " ")
}

// ProgressBar renders the share of the reveal script already played.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(bar)
}

// SparklineChart renders the most recent width values as a sparkline.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(sparkMid.Render(c))
		default:
			b.WriteString(sparkLow.Render(c))
		}
	}
	return b.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ◆ " + right)
}
