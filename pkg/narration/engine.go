// Package narration speaks tutorial steps aloud.
//
// An Engine is a single process-wide audio channel. Playback is asynchronous:
// Speak returns as soon as playback has been requested and progress is
// reported through the callbacks in Options. Callbacks may run on any
// goroutine and must not call back into the engine.
package narration

import (
	"context"
	"errors"
	"strings"
)

// Common errors.
var (
	ErrEmptyText = errors.New("narration text is empty")
	ErrNoEngine  = errors.New("no speech engine available")
	ErrClosed    = errors.New("speech engine closed")
)

// Utterance identifies one Speak request within an engine.
type Utterance uint64

// Voice holds the synthesis parameters.
type Voice struct {
	Language string  `yaml:"language"`
	Pitch    float64 `yaml:"pitch"`
	Rate     float64 `yaml:"rate"`
}

// DefaultVoice is English at normal pitch, slightly slowed down.
func DefaultVoice() Voice {
	return Voice{Language: "en", Pitch: 1.0, Rate: 0.9}
}

// normalized fills zero fields from DefaultVoice.
func (v Voice) normalized() Voice {
	def := DefaultVoice()
	if strings.TrimSpace(v.Language) == "" {
		v.Language = def.Language
	}
	if v.Pitch <= 0 {
		v.Pitch = def.Pitch
	}
	if v.Rate <= 0 {
		v.Rate = def.Rate
	}
	return v
}

// Options configures one utterance.
type Options struct {
	Voice

	// OnStart fires once audio has actually begun.
	OnStart func()
	// OnDone fires when playback finishes on its own.
	OnDone func()
	// OnStopped fires when playback was cut short by Stop or a newer Speak.
	OnStopped func()
	// OnError fires when playback could not proceed after Speak returned.
	OnError func(error)
}

func (o Options) start() {
	if o.OnStart != nil {
		o.OnStart()
	}
}

func (o Options) done() {
	if o.OnDone != nil {
		o.OnDone()
	}
}

func (o Options) stopped() {
	if o.OnStopped != nil {
		o.OnStopped()
	}
}

func (o Options) fail(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

// Engine is the text-to-speech collaborator.
type Engine interface {
	// Speak starts narrating text. Any utterance already playing is stopped
	// first.
	Speak(text string, opts Options) (Utterance, error)
	// Stop halts the current utterance, if any. It returns once the audio
	// has stopped.
	Stop() error
	// IsSpeaking reports whether audio is currently playing.
	IsSpeaking(ctx context.Context) (bool, error)
}

// Closer is implemented by engines that hold resources beyond an utterance.
type Closer interface {
	Close() error
}

func validText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}
