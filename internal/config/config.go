package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMachineRadius = 225.0
	DefaultBallRadius    = 24.0
	DefaultCenter        = 250.0
	DefaultGravity       = 0.5
	DefaultWindForce     = 5.0
	DefaultDamping       = 0.94
	DefaultFriction      = 0.98
	DefaultDrawCount     = 6
	DefaultDrawMax       = 45
	DefaultHistoryKey    = "lottoHistory"
	DefaultDataDir       = ".lottosim"
)

var (
	ErrInvalid       = errors.New("config: invalid value")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Config struct {
	Seed     int64         `yaml:"seed"`
	DataDir  string        `yaml:"data_dir"`
	LogLevel string        `yaml:"log_level"`
	Draw     DrawConfig    `yaml:"draw"`
	Machine  MachineConfig `yaml:"machine"`
	Timing   TimingConfig  `yaml:"timing"`
	History  HistoryConfig `yaml:"history"`
}

type DrawConfig struct {
	Count  int  `yaml:"count"`
	Max    int  `yaml:"max"`
	Crypto bool `yaml:"crypto"`
}

// MachineConfig holds the drum geometry and the physics constants applied per
// frame. Velocities are in units per frame, not per second.
type MachineConfig struct {
	Radius         float64 `yaml:"radius"`
	BallRadius     float64 `yaml:"ball_radius"`
	CenterX        float64 `yaml:"center_x"`
	CenterY        float64 `yaml:"center_y"`
	Gravity        float64 `yaml:"gravity"`
	WindForce      float64 `yaml:"wind_force"`
	WindMultiplier float64 `yaml:"wind_multiplier"`
	WindBand       float64 `yaml:"wind_band"`
	WindJitterX    float64 `yaml:"wind_jitter_x"`
	WindJitterY    float64 `yaml:"wind_jitter_y"`
	Jitter         float64 `yaml:"jitter"`
	Friction       float64 `yaml:"friction"`
	Damping        float64 `yaml:"damping"`
	Exchange       float64 `yaml:"exchange"`
	SpawnMargin    float64 `yaml:"spawn_margin"`
	SpawnSpeed     float64 `yaml:"spawn_speed"`
}

// TimingConfig is the reveal script, in milliseconds.
type TimingConfig struct {
	FrameRate     int `yaml:"frame_rate"`
	WindDuration  int `yaml:"wind_duration_ms"`
	WindLead      int `yaml:"wind_lead_ms"`
	PickHold      int `yaml:"pick_hold_ms"`
	Fade          int `yaml:"fade_ms"`
	PickGap       int `yaml:"pick_gap_ms"`
	Settle        int `yaml:"settle_ms"`
	CenterFade    int `yaml:"center_fade_ms"`
	ResultStagger int `yaml:"result_stagger_ms"`
	Hold          int `yaml:"hold_ms"`
}

type HistoryConfig struct {
	Key string `yaml:"key"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: "info",
		Draw: DrawConfig{
			Count: DefaultDrawCount,
			Max:   DefaultDrawMax,
		},
		Machine: DefaultMachine(),
		Timing:  DefaultTiming(),
		History: HistoryConfig{Key: DefaultHistoryKey},
	}
}

func DefaultMachine() MachineConfig {
	return MachineConfig{
		Radius:         DefaultMachineRadius,
		BallRadius:     DefaultBallRadius,
		CenterX:        DefaultCenter,
		CenterY:        DefaultCenter,
		Gravity:        DefaultGravity,
		WindForce:      DefaultWindForce,
		WindMultiplier: 4,
		WindBand:       0.8,
		WindJitterX:    0.6,
		WindJitterY:    0.4,
		Jitter:         0.1,
		Friction:       DefaultFriction,
		Damping:        DefaultDamping,
		Exchange:       0.95,
		SpawnMargin:    30,
		SpawnSpeed:     2,
	}
}

func DefaultTiming() TimingConfig {
	return TimingConfig{
		FrameRate:     60,
		WindDuration:  2000,
		WindLead:      1500,
		PickHold:      200,
		Fade:          300,
		PickGap:       400,
		Settle:        800,
		CenterFade:    500,
		ResultStagger: 100,
		Hold:          1000,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads envFile (if present) and applies LOTTOSIM_* overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if v := os.Getenv("LOTTOSIM_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LOTTOSIM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOTTOSIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: LOTTOSIM_SEED=%q", ErrInvalid, v)
		}
		c.Seed = seed
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Draw.Count <= 0 || c.Draw.Count > c.Draw.Max:
		return fmt.Errorf("%w: draw count %d must be in 1..%d", ErrInvalid, c.Draw.Count, c.Draw.Max)
	case c.Machine.BallRadius <= 0 || c.Machine.Radius <= c.Machine.BallRadius:
		return fmt.Errorf("%w: ball radius %.1f must be positive and below drum radius %.1f",
			ErrInvalid, c.Machine.BallRadius, c.Machine.Radius)
	case c.Machine.Friction <= 0 || c.Machine.Friction > 1:
		return fmt.Errorf("%w: friction %.3f must be in (0, 1]", ErrInvalid, c.Machine.Friction)
	case c.Machine.Damping < 0 || c.Machine.Damping > 1:
		return fmt.Errorf("%w: damping %.3f must be in [0, 1]", ErrInvalid, c.Machine.Damping)
	case c.Timing.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate %d", ErrInvalid, c.Timing.FrameRate)
	case c.History.Key == "":
		return fmt.Errorf("%w: empty history key", ErrInvalid)
	}
	return c.Timing.validate(c.Draw.Count)
}

// validate rejects negative delays and a result stagger that would still be
// revealing numbers after the hold has reset the drum.
func (t TimingConfig) validate(count int) error {
	delays := []struct {
		name string
		ms   int
	}{
		{"wind_duration_ms", t.WindDuration},
		{"wind_lead_ms", t.WindLead},
		{"pick_hold_ms", t.PickHold},
		{"fade_ms", t.Fade},
		{"pick_gap_ms", t.PickGap},
		{"settle_ms", t.Settle},
		{"center_fade_ms", t.CenterFade},
		{"result_stagger_ms", t.ResultStagger},
		{"hold_ms", t.Hold},
	}
	for _, d := range delays {
		if d.ms < 0 {
			return fmt.Errorf("%w: %s %d is negative", ErrInvalid, d.name, d.ms)
		}
	}

	if last := t.ResultStagger * (count - 1); last > t.Hold {
		return fmt.Errorf("%w: last result appears at %dms, after hold_ms %d", ErrInvalid, last, t.Hold)
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (t TimingConfig) Frame() time.Duration {
	if t.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(t.FrameRate)
}

func (t TimingConfig) WindDurationD() time.Duration  { return ms(t.WindDuration) }
func (t TimingConfig) WindLeadD() time.Duration      { return ms(t.WindLead) }
func (t TimingConfig) PickHoldD() time.Duration      { return ms(t.PickHold) }
func (t TimingConfig) FadeD() time.Duration          { return ms(t.Fade) }
func (t TimingConfig) PickGapD() time.Duration       { return ms(t.PickGap) }
func (t TimingConfig) SettleD() time.Duration        { return ms(t.Settle) }
func (t TimingConfig) CenterFadeD() time.Duration    { return ms(t.CenterFade) }
func (t TimingConfig) ResultStaggerD() time.Duration { return ms(t.ResultStagger) }
func (t TimingConfig) HoldD() time.Duration          { return ms(t.Hold) }

// RevealDuration is the scripted length of one reveal for count numbers.
func (t TimingConfig) RevealDuration(count int) time.Duration {
	per := t.PickHoldD() + t.FadeD() + t.PickGapD()
	return t.WindLeadD() + time.Duration(count)*per + t.SettleD() + t.CenterFadeD() + t.HoldD()
}
