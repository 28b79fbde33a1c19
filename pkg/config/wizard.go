package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/stitchwork/pkg/narration"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Wizard collects narration and UI preferences interactively.
type Wizard struct {
	cfg Config

	// form fields; huh edits strings for numeric inputs
	pitch string
	rate  string
}

// NewWizard starts from base, usually the currently loaded config.
func NewWizard(base Config) *Wizard {
	return &Wizard{
		cfg:   base,
		pitch: formatFloat(base.Narration.Pitch),
		rate:  formatFloat(base.Narration.Rate),
	}
}

func (w *Wizard) form() *huh.Form {
	engines := make([]huh.Option[string], 0, len(narration.EngineNames()))
	for _, name := range narration.EngineNames() {
		engines = append(engines, huh.NewOption(name, name))
	}

	return newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Narration engine").
				Description("auto uses the first speech program found on PATH").
				Options(engines...).
				Value(&w.cfg.Narration.Engine),
			huh.NewInput().
				Title("Language").
				Value(&w.cfg.Narration.Language).
				Placeholder("en"),
			huh.NewInput().
				Title("Pitch (0-2)").
				Value(&w.pitch).
				Validate(floatBetween(0, 2)),
			huh.NewInput().
				Title("Rate (0-4)").
				Value(&w.rate).
				Validate(floatBetween(0, 4)),
			huh.NewConfirm().
				Title("Start muted?").
				Value(&w.cfg.Narration.Muted),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable mouse support?").
				Value(&w.cfg.UI.Mouse),
			huh.NewConfirm().
				Title("Use the alternate screen?").
				Value(&w.cfg.UI.AltScreen),
		),
	)
}

// Run shows the form and returns the resulting config.
func (w *Wizard) Run() (Config, error) {
	if err := w.form().Run(); err != nil {
		return Config{}, err
	}
	return w.Result()
}

// Result applies the text fields and validates.
func (w *Wizard) Result() (Config, error) {
	cfg := w.cfg
	var err error
	if cfg.Narration.Pitch, err = strconv.ParseFloat(w.pitch, 64); err != nil {
		return Config{}, fmt.Errorf("%w: pitch %q", ErrInvalid, w.pitch)
	}
	if cfg.Narration.Rate, err = strconv.ParseFloat(w.rate, 64); err != nil {
		return Config{}, fmt.Errorf("%w: rate %q", ErrInvalid, w.rate)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func floatBetween(lo, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
