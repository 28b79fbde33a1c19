package narration

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Engine names accepted by Select.
const (
	EngineAuto   = "auto"
	EngineSilent = "silent"
)

// Select returns the engine named by name. "auto" picks the first speech
// program found on PATH and falls back to the silent engine.
func Select(name string, voice Voice, log *zap.Logger) (Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", EngineAuto:
		for _, s := range KnownSpeakers() {
			if _, err := exec.LookPath(s.Binary); err == nil {
				log.Info("using speech program", zap.String("speaker", s.Name))
				return NewCommandEngine(s, WithDefaultVoice(voice), WithCommandLogger(log)), nil
			}
		}
		log.Info("no speech program found, narration is silent")
		return NewSilentEngine(WithSilentLogger(log)), nil
	case EngineSilent:
		return NewSilentEngine(WithSilentLogger(log)), nil
	}

	for _, s := range KnownSpeakers() {
		if s.Name == name {
			if _, err := exec.LookPath(s.Binary); err != nil {
				return nil, fmt.Errorf("%s not found on PATH: %w", s.Binary, ErrNoEngine)
			}
			return NewCommandEngine(s, WithDefaultVoice(voice), WithCommandLogger(log)), nil
		}
	}
	return nil, fmt.Errorf("unknown narration engine %q", name)
}

// EngineNames lists the values Select understands.
func EngineNames() []string {
	names := []string{EngineAuto, EngineSilent}
	for _, s := range KnownSpeakers() {
		names = append(names, s.Name)
	}
	return names
}

// NameOf returns a short label for an engine.
func NameOf(e Engine) string {
	if n, ok := e.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", e)
}
