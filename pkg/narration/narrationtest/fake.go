// Package narrationtest provides a deterministic narration engine for tests.
package narrationtest

import (
	"context"
	"strings"
	"sync"

	"github.com/vanderheijden86/stitchwork/pkg/narration"
)

// Call names recorded by Fake.
const (
	CallStop        = "stop"
	CallSpeakPrefix = "speak:"
)

// Fake records every Speak and Stop call in order and fires callbacks
// synchronously, so tests can assert on exact call sequences.
type Fake struct {
	mu sync.Mutex

	// AutoStart fires OnStart from inside Speak. When false, call Start.
	AutoStart bool
	// SpeakErr, when set, is returned by Speak without starting playback.
	SpeakErr error
	// QueryErr, when set, is returned by IsSpeaking.
	QueryErr error

	calls    []string
	current  *utterance
	next     narration.Utterance
	lastOpts narration.Options
}

type utterance struct {
	id      narration.Utterance
	text    string
	opts    narration.Options
	started bool
}

// New returns a Fake with AutoStart enabled.
func New() *Fake {
	return &Fake{AutoStart: true}
}

// Speak implements narration.Engine. An utterance already playing is
// reported stopped, matching real engines.
func (f *Fake) Speak(text string, opts narration.Options) (narration.Utterance, error) {
	f.mu.Lock()
	f.calls = append(f.calls, CallSpeakPrefix+text)
	if f.SpeakErr != nil {
		err := f.SpeakErr
		f.mu.Unlock()
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		f.mu.Unlock()
		return 0, narration.ErrEmptyText
	}
	prev := f.current
	f.next++
	u := &utterance{id: f.next, text: text, opts: opts}
	f.current = u
	f.lastOpts = opts
	auto := f.AutoStart
	if auto {
		u.started = true
	}
	f.mu.Unlock()

	if prev != nil && prev.opts.OnStopped != nil {
		prev.opts.OnStopped()
	}
	if auto && opts.OnStart != nil {
		opts.OnStart()
	}
	return u.id, nil
}

// Stop implements narration.Engine.
func (f *Fake) Stop() error {
	f.mu.Lock()
	f.calls = append(f.calls, CallStop)
	u := f.current
	f.current = nil
	f.mu.Unlock()

	if u != nil && u.opts.OnStopped != nil {
		u.opts.OnStopped()
	}
	return nil
}

// IsSpeaking implements narration.Engine.
func (f *Fake) IsSpeaking(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.QueryErr != nil {
		return false, f.QueryErr
	}
	return f.current != nil && f.current.started, nil
}

// Start fires OnStart for a pending utterance when AutoStart is off.
func (f *Fake) Start() bool {
	f.mu.Lock()
	u := f.current
	if u == nil || u.started {
		f.mu.Unlock()
		return false
	}
	u.started = true
	f.mu.Unlock()
	if u.opts.OnStart != nil {
		u.opts.OnStart()
	}
	return true
}

// Finish completes the current utterance as if playback ended naturally.
func (f *Fake) Finish() bool {
	f.mu.Lock()
	u := f.current
	f.current = nil
	f.mu.Unlock()
	if u == nil {
		return false
	}
	if u.opts.OnDone != nil {
		u.opts.OnDone()
	}
	return true
}

// Fail aborts the current utterance with err.
func (f *Fake) Fail(err error) bool {
	f.mu.Lock()
	u := f.current
	f.current = nil
	f.mu.Unlock()
	if u == nil {
		return false
	}
	if u.opts.OnError != nil {
		u.opts.OnError(err)
	}
	return true
}

// Calls returns a copy of the recorded call sequence.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Spoken returns the texts passed to Speak, in order.
func (f *Fake) Spoken() []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, CallSpeakPrefix) {
			out = append(out, strings.TrimPrefix(c, CallSpeakPrefix))
		}
	}
	return out
}

// Current returns the text of the utterance in flight.
func (f *Fake) Current() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return "", false
	}
	return f.current.text, true
}

// LastOptions returns the options of the most recent Speak.
func (f *Fake) LastOptions() narration.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOpts
}

// Reset clears recorded calls but keeps the current utterance.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

var _ narration.Engine = (*Fake)(nil)
