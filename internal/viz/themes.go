package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI. Bands color the balls by tens,
// the way printed lottery balls are: 1-10, 11-20, 21-30, 31-40, 41 and up.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Wind    lipgloss.Color
	Warning lipgloss.Color
	Bands   [5]lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:    "classic",
		Primary: lipgloss.Color("#f5f5f5"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Wind:    lipgloss.Color("#7fdbff"),
		Warning: lipgloss.Color("#ffaa00"),
		Bands: [5]lipgloss.Color{
			lipgloss.Color("#fbc400"), // yellow
			lipgloss.Color("#69c8f2"), // blue
			lipgloss.Color("#ff7272"), // red
			lipgloss.Color("#aaaaaa"), // gray
			lipgloss.Color("#b0d840"), // green
		},
	}

	ThemeNight = Theme{
		Name:    "night",
		Primary: lipgloss.Color("#c0c8ff"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#e0e6ff"),
		Muted:   lipgloss.Color("#4a4a6a"),
		Wind:    lipgloss.Color("#48dbfb"),
		Warning: lipgloss.Color("#feca57"),
		Bands: [5]lipgloss.Color{
			lipgloss.Color("#feca57"),
			lipgloss.Color("#54a0ff"),
			lipgloss.Color("#ff6b6b"),
			lipgloss.Color("#8395a7"),
			lipgloss.Color("#1dd1a1"),
		},
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#777777"),
		Wind:    lipgloss.Color("#bbbbbb"),
		Warning: lipgloss.Color("#ffffff"),
		Bands: [5]lipgloss.Color{
			lipgloss.Color("#ffffff"),
			lipgloss.Color("#dddddd"),
			lipgloss.Color("#bbbbbb"),
			lipgloss.Color("#999999"),
			lipgloss.Color("#777777"),
		},
	}

	// Default theme
	CurrentTheme = ThemeClassic

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeNight,
		ThemeMono,
	}
)

// BandColor is the color of ball n.
func (t Theme) BandColor(n int) lipgloss.Color {
	band := (n - 1) / 10
	if band < 0 {
		band = 0
	}
	if band >= len(t.Bands) {
		band = len(t.Bands) - 1
	}
	return t.Bands[band]
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
