package config

import "sort"

// Presets are named starting points; a config file or flags override them.
var Presets = map[string]func() *Config{
	"classic": DefaultConfig,
	"calm": func() *Config {
		cfg := DefaultConfig()
		cfg.Machine.Jitter = 0.04
		cfg.Machine.WindForce = 3.5
		cfg.Machine.WindJitterX = 0.3
		cfg.Machine.WindJitterY = 0.2
		return cfg
	},
	"storm": func() *Config {
		cfg := DefaultConfig()
		cfg.Machine.WindForce = 7
		cfg.Machine.Jitter = 0.25
		cfg.Machine.Friction = 0.99
		cfg.Timing.WindDuration = 3000
		cfg.Timing.WindLead = 2500
		return cfg
	},
	"quick": func() *Config {
		cfg := DefaultConfig()
		cfg.Timing.WindLead = 500
		cfg.Timing.PickHold = 100
		cfg.Timing.Fade = 150
		cfg.Timing.PickGap = 150
		cfg.Timing.Settle = 300
		cfg.Timing.CenterFade = 200
		cfg.Timing.ResultStagger = 50
		cfg.Timing.Hold = 500
		return cfg
	},
	"pension": func() *Config {
		cfg := DefaultConfig()
		cfg.Draw.Count = 7
		cfg.Draw.Max = 45
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
