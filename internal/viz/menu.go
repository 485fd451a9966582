package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/lottosim/internal/config"
)

var presetInfo = map[string]string{
	"classic": "6 of 45, standard timing",
	"calm":    "soft wind, little turbulence",
	"storm":   "strong long gusts",
	"quick":   "short reveal script",
	"pension": "7 of 45",
}

// presetConfig builds the named preset while keeping the run settings of
// base: seed, data dir, logging and history key.
func presetConfig(name string, base *config.Config) *config.Config {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return base
	}
	if base != nil {
		cfg.Seed = base.Seed
		cfg.DataDir = base.DataDir
		cfg.LogLevel = base.LogLevel
		cfg.History = base.History
		cfg.Draw.Crypto = base.Draw.Crypto
	}
	return cfg
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.start(presetConfig(m.presets[m.cursor], m.opts.Config))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(CurrentTheme.Accent).Render("LOTTOSIM") + "\n")
	b.WriteString(menuInfo.Render("pick a machine") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, menuInfo.Render(presetInfo[name]))
		if i == m.cursor {
			b.WriteString(menuCursor.Render("> "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			b.WriteString("  " + menuItem.Render(name) + strings.TrimPrefix(line, name) + "\n")
		}
	}
	b.WriteString(helpStyle.Render("↑↓:select  enter:start  q:quit"))
	return canvasStyle.Render(b.String())
}
