package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/stitchwork/pkg/motion"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Narration.Engine != narration.EngineAuto {
		t.Errorf("expected engine 'auto', got %q", cfg.Narration.Engine)
	}
	if cfg.Narration.Voice != narration.DefaultVoice() {
		t.Errorf("expected default voice, got %+v", cfg.Narration.Voice)
	}
	if cfg.HeaderConfig() != motion.DefaultHeaderConfig() {
		t.Errorf("expected default header curve, got %+v", cfg.HeaderConfig())
	}
	if cfg.Motion.FPS != motion.DefaultFPS {
		t.Errorf("expected %d fps, got %d", motion.DefaultFPS, cfg.Motion.FPS)
	}
	if !cfg.UI.Mouse || !cfg.UI.AltScreen {
		t.Error("expected mouse and alt screen enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Narration.Engine != narration.EngineAuto {
		t.Errorf("expected default config, got engine %q", cfg.Narration.Engine)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
narration:
  engine: silent
  language: en-GB
  pitch: 1.2
  rate: 1.0
motion:
  header_expanded: 9
  header_collapsed: 2
  header_scroll_threshold: 10
ui:
  mouse: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Narration.Engine != "silent" || cfg.Narration.Language != "en-GB" {
		t.Errorf("narration = %+v", cfg.Narration)
	}
	if cfg.Narration.Pitch != 1.2 || cfg.Narration.Rate != 1.0 {
		t.Errorf("voice = %+v", cfg.Narration.Voice)
	}
	want := motion.HeaderConfig{Expanded: 9, Collapsed: 2, Threshold: 10}
	if cfg.HeaderConfig() != want {
		t.Errorf("header = %+v, want %+v", cfg.HeaderConfig(), want)
	}
	// Unset keys keep their defaults.
	if cfg.Motion.FPS != motion.DefaultFPS || cfg.Motion.TypewriterMinMS != 20 {
		t.Errorf("motion defaults lost: %+v", cfg.Motion)
	}
	if cfg.UI.Mouse {
		t.Error("expected mouse disabled")
	}
	if !cfg.UI.AltScreen {
		t.Error("expected alt screen default kept")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("narration: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Narration.Engine != narration.EngineAuto {
		t.Error("expected defaults returned alongside the error")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("motion:\n  header_expanded: 1\n  header_collapsed: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown engine", func(c *Config) { c.Narration.Engine = "festival" }, "narration.engine"},
		{"pitch too high", func(c *Config) { c.Narration.Pitch = 3 }, "narration.pitch"},
		{"negative rate", func(c *Config) { c.Narration.Rate = -1 }, "narration.rate"},
		{"collapsed zero", func(c *Config) { c.Motion.HeaderCollapsed = 0 }, "motion"},
		{"zero threshold", func(c *Config) { c.Motion.HeaderScrollThreshold = 0 }, "motion"},
		{"fps zero", func(c *Config) { c.Motion.FPS = 0 }, "motion.fps"},
		{"typewriter inverted", func(c *Config) { c.Motion.TypewriterMinMS = 40 }, "typewriter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestValidate_EngineCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Narration.Engine = "Silent"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Narration.Engine = "silent"
	cfg.Narration.Muted = true
	cfg.Motion.HeaderExpanded = 8
	cfg.UI.AltScreen = false

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestSaveTo_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Motion.FPS = -1
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveTo(cfg, path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != "/tmp/xdg-test/stitch" {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigPath(); got != "/tmp/xdg-test/stitch/config.yaml" {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestLoad_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.Narration.Language = "fr"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Narration.Language != "fr" {
		t.Errorf("language = %q", loaded.Narration.Language)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvEngine, "silent")
	t.Setenv(EnvMute, "true")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Narration.Engine != "silent" || !cfg.Narration.Muted {
		t.Errorf("env not applied: %+v", cfg.Narration)
	}
}

func TestApplyEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv(EnvEngine, "")
	t.Setenv(EnvMute, "maybe")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Narration.Muted || cfg.Narration.Engine != narration.EngineAuto {
		t.Errorf("unexpected override: %+v", cfg.Narration)
	}
}

func TestEngineName(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.EngineName() != narration.EngineAuto {
		t.Errorf("EngineName() = %q", cfg.EngineName())
	}
	cfg.Narration.Engine = "say"
	cfg.Narration.Muted = true
	if cfg.EngineName() != narration.EngineSilent {
		t.Errorf("muted EngineName() = %q", cfg.EngineName())
	}
}

func TestTypewriterDelays(t *testing.T) {
	lo, hi := DefaultConfig().TypewriterDelays()
	if lo != 20*time.Millisecond || hi != 30*time.Millisecond {
		t.Errorf("delays = %v, %v", lo, hi)
	}
}

func TestWizardResult(t *testing.T) {
	w := NewWizard(DefaultConfig())
	w.pitch = "1.5"
	w.rate = "0.75"
	cfg, err := w.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if cfg.Narration.Pitch != 1.5 || cfg.Narration.Rate != 0.75 {
		t.Errorf("voice = %+v", cfg.Narration.Voice)
	}

	w.rate = "fast"
	if _, err := w.Result(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for bad rate, got %v", err)
	}
}

func TestFloatBetween(t *testing.T) {
	check := floatBetween(0, 2)
	for in, ok := range map[string]bool{"1": true, "0": true, "2.0": true, "2.1": false, "x": false, "-1": false} {
		if err := check(in); (err == nil) != ok {
			t.Errorf("floatBetween(%q) err=%v, want ok=%v", in, err, ok)
		}
	}
}
