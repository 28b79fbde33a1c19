// Package config handles loading and saving stitch configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/stitch/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/stitchwork/pkg/motion"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Environment overrides applied by ApplyEnv.
const (
	EnvEngine = "STITCH_NARRATION_ENGINE"
	EnvMute   = "STITCH_MUTE"
)

// NarrationConfig selects the speech engine and voice.
type NarrationConfig struct {
	Engine          string `yaml:"engine"` // auto, silent, espeak-ng, espeak, say, spd-say
	narration.Voice `yaml:",inline"`
	Muted           bool `yaml:"muted,omitempty"`
}

// MotionConfig tunes animations.
type MotionConfig struct {
	HeaderExpanded        int     `yaml:"header_expanded"`         // rows at scroll offset 0
	HeaderCollapsed       int     `yaml:"header_collapsed"`        // rows once fully scrolled
	HeaderScrollThreshold float64 `yaml:"header_scroll_threshold"` // lines of scroll to collapse over
	FPS                   int     `yaml:"fps"`
	TypewriterMinMS       int     `yaml:"typewriter_min_ms"`
	TypewriterMaxMS       int     `yaml:"typewriter_max_ms"`
}

// UIConfig holds terminal preferences.
type UIConfig struct {
	Mouse     bool `yaml:"mouse"`
	AltScreen bool `yaml:"alt_screen"`
}

// Config is the top-level configuration for stitch.
type Config struct {
	Narration NarrationConfig `yaml:"narration"`
	Motion    MotionConfig    `yaml:"motion"`
	UI        UIConfig        `yaml:"ui"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	hdr := motion.DefaultHeaderConfig()
	return Config{
		Narration: NarrationConfig{
			Engine: narration.EngineAuto,
			Voice:  narration.DefaultVoice(),
		},
		Motion: MotionConfig{
			HeaderExpanded:        hdr.Expanded,
			HeaderCollapsed:       hdr.Collapsed,
			HeaderScrollThreshold: hdr.Threshold,
			FPS:                   motion.DefaultFPS,
			TypewriterMinMS:       20,
			TypewriterMaxMS:       30,
		},
		UI: UIConfig{
			Mouse:     true,
			AltScreen: true,
		},
	}
}

// ConfigDir returns the XDG config directory for stitch.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "stitch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stitch")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path and validates it.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	n := c.Narration
	if n.Engine != "" && !slices.Contains(narration.EngineNames(), strings.ToLower(n.Engine)) {
		return fmt.Errorf("%w: narration.engine %q (want one of %s)", ErrInvalid, n.Engine, strings.Join(narration.EngineNames(), ", "))
	}
	if n.Pitch < 0 || n.Pitch > 2 {
		return fmt.Errorf("%w: narration.pitch %.2f outside 0-2", ErrInvalid, n.Pitch)
	}
	if n.Rate < 0 || n.Rate > 4 {
		return fmt.Errorf("%w: narration.rate %.2f outside 0-4", ErrInvalid, n.Rate)
	}

	m := c.Motion
	if _, err := motion.NewHeader(c.HeaderConfig()); err != nil {
		return fmt.Errorf("%w: motion: %v", ErrInvalid, err)
	}
	if m.FPS < 1 || m.FPS > 240 {
		return fmt.Errorf("%w: motion.fps %d outside 1-240", ErrInvalid, m.FPS)
	}
	if m.TypewriterMinMS < 0 || m.TypewriterMaxMS < m.TypewriterMinMS {
		return fmt.Errorf("%w: motion.typewriter_min_ms/max_ms %d/%d", ErrInvalid, m.TypewriterMinMS, m.TypewriterMaxMS)
	}
	return nil
}

// ApplyEnv overlays STITCH_NARRATION_ENGINE and STITCH_MUTE.
func (c *Config) ApplyEnv() {
	if e := strings.TrimSpace(os.Getenv(EnvEngine)); e != "" {
		c.Narration.Engine = e
	}
	if v := os.Getenv(EnvMute); v != "" {
		if muted, err := strconv.ParseBool(v); err == nil {
			c.Narration.Muted = muted
		}
	}
}

// EngineName is the engine to select, accounting for Muted.
func (c Config) EngineName() string {
	if c.Narration.Muted {
		return narration.EngineSilent
	}
	if c.Narration.Engine == "" {
		return narration.EngineAuto
	}
	return c.Narration.Engine
}

// HeaderConfig returns the header collapse curve settings.
func (c Config) HeaderConfig() motion.HeaderConfig {
	return motion.HeaderConfig{
		Expanded:  c.Motion.HeaderExpanded,
		Collapsed: c.Motion.HeaderCollapsed,
		Threshold: c.Motion.HeaderScrollThreshold,
	}
}

// TypewriterDelays returns the per-rune reveal delay bounds.
func (c Config) TypewriterDelays() (lo, hi time.Duration) {
	return time.Duration(c.Motion.TypewriterMinMS) * time.Millisecond,
		time.Duration(c.Motion.TypewriterMaxMS) * time.Millisecond
}
