// Package tutorial implements the step viewer state machine: which step is
// shown, whether its narration is playing, and the stop-then-start
// discipline that keeps narration in step with the display.
//
// A Session is owned by a single goroutine (the UI loop). The narration
// engine reports progress asynchronously; those callbacks are queued and
// applied on the owning goroutine through Wait/Apply or ApplyPending.
package tutorial

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vanderheijden86/stitchwork/pkg/metrics"
	"github.com/vanderheijden86/stitchwork/pkg/model"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
)

// Outcome is the result of Advance.
type Outcome int

const (
	// Advanced means the next step is now shown.
	Advanced Outcome = iota
	// Completed means Advance was called on the last step; the index is
	// unchanged and the caller should leave the viewer.
	Completed
)

func (o Outcome) String() string {
	if o == Completed {
		return "completed"
	}
	return "advanced"
}

// Session is one viewing of a step sequence, from mount to unmount.
type Session struct {
	steps  []model.Step
	engine narration.Engine
	voice  narration.Voice
	log    *zap.Logger

	index     int
	narrating bool
	token     uint64 // utterance the session owns; 0 when none
	seq       uint64
	requested time.Time

	mounted bool
	closed  bool
	queue   *eventQueue
}

// Option configures a Session.
type Option func(*Session)

// WithVoice sets the narration voice.
func WithVoice(v narration.Voice) Option {
	return func(s *Session) {
		s.voice = v
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession prepares a session. steps must be non-empty; that is a
// precondition, not a checked error. Narration begins with Mount.
func NewSession(steps []model.Step, engine narration.Engine, opts ...Option) *Session {
	s := &Session{
		steps:  steps,
		engine: engine,
		voice:  narration.DefaultVoice(),
		log:    zap.NewNop(),
		queue:  newEventQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount shows the first step and starts its narration. Calling it again is
// a no-op.
func (s *Session) Mount() {
	if s.mounted || s.closed {
		return
	}
	s.mounted = true
	s.log.Debug("session mounted", zap.Int("steps", len(s.steps)))
	s.restartNarration()
}

// Advance moves to the next step, or reports completion on the last one.
func (s *Session) Advance() Outcome {
	if s.index < len(s.steps)-1 {
		s.index++
		s.log.Debug("advanced", zap.Int("index", s.index))
		s.restartNarration()
		return Advanced
	}
	s.log.Debug("tutorial complete", zap.Int("index", s.index))
	return Completed
}

// ToggleNarration stops narration if audio is playing, otherwise starts the
// current step's narration. The narrating flag only turns on once the
// engine reports the start.
func (s *Session) ToggleNarration(ctx context.Context) {
	if s.closed {
		return
	}
	speaking, err := s.engine.IsSpeaking(ctx)
	if err != nil {
		s.log.Warn("querying narration state", zap.Error(err))
		speaking = s.narrating || s.token != 0
	}
	if speaking {
		s.stopNarration()
		return
	}
	s.speakCurrent()
}

// Apply folds one engine event into the session state. Events for an
// utterance the session no longer owns are ignored.
func (s *Session) Apply(ev Event) {
	if ev.Token == 0 || ev.Token != s.token {
		s.log.Debug("stale narration event", zap.Stringer("kind", ev.Kind), zap.Uint64("token", ev.Token))
		return
	}
	switch ev.Kind {
	case EventStarted:
		s.narrating = true
		if !s.requested.IsZero() {
			metrics.NarrationStart.Record(time.Since(s.requested))
			s.requested = time.Time{}
		}
	case EventDone, EventStopped:
		s.narrating = false
		s.token = 0
	case EventFailed:
		s.log.Warn("narration failed", zap.Int("index", s.index), zap.Error(ev.Err))
		s.narrating = false
		s.token = 0
	}
}

// ApplyPending applies every queued event and returns how many there were.
func (s *Session) ApplyPending() int {
	evs := s.queue.drain()
	for _, ev := range evs {
		s.Apply(ev)
	}
	return len(evs)
}

// Wait blocks until the engine reports an event. It returns false once the
// session is closed or ctx is done.
func (s *Session) Wait(ctx context.Context) (Event, bool) {
	return s.queue.wait(ctx)
}

// Close stops any narration. Safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.engine.Stop(); err != nil {
		s.log.Warn("stopping narration on close", zap.Error(err))
	}
	s.narrating = false
	s.token = 0
	s.queue.close()
	s.log.Debug("session closed", zap.Int("index", s.index))
}

// restartNarration stops whatever is playing, then speaks the current step.
// The stop always completes before the new Speak is issued.
func (s *Session) restartNarration() {
	s.stopNarration()
	s.speakCurrent()
}

func (s *Session) stopNarration() {
	if err := s.engine.Stop(); err != nil {
		s.log.Warn("stopping narration", zap.Error(err))
	}
	s.narrating = false
	s.token = 0
}

func (s *Session) speakCurrent() {
	step := s.steps[s.index]
	if !step.HasNarration() {
		return
	}

	s.seq++
	tok := s.seq
	s.token = tok
	s.requested = time.Now()

	opts := narration.Options{
		Voice:     s.voice,
		OnStart:   func() { s.queue.push(Event{Token: tok, Kind: EventStarted}) },
		OnDone:    func() { s.queue.push(Event{Token: tok, Kind: EventDone}) },
		OnStopped: func() { s.queue.push(Event{Token: tok, Kind: EventStopped}) },
		OnError:   func(err error) { s.queue.push(Event{Token: tok, Kind: EventFailed, Err: err}) },
	}
	if _, err := s.engine.Speak(step.VoiceNote, opts); err != nil {
		s.log.Warn("starting narration", zap.Int("index", s.index), zap.Error(err))
		s.token = 0
		s.narrating = false
		s.requested = time.Time{}
	}
}

// Index returns the current step index.
func (s *Session) Index() int {
	return s.index
}

// Len returns the number of steps.
func (s *Session) Len() int {
	return len(s.steps)
}

// Current returns the step being shown.
func (s *Session) Current() model.Step {
	return s.steps[s.index]
}

// IsLast reports whether the current step is the final one.
func (s *Session) IsLast() bool {
	return s.index == len(s.steps)-1
}

// IsNarrating reports whether narration audio is confirmed playing.
func (s *Session) IsNarrating() bool {
	return s.narrating
}

// Progress returns the fraction of steps reached, in (0, 1].
func (s *Session) Progress() float64 {
	if len(s.steps) == 0 {
		return 0
	}
	return float64(s.index+1) / float64(len(s.steps))
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// SetVoice changes the voice used for subsequent utterances.
func (s *Session) SetVoice(v narration.Voice) {
	s.voice = v
}

// MaxDescriptionLength returns the longest description in runes; the viewer
// sizes its text box from it so the layout does not jump between steps.
func (s *Session) MaxDescriptionLength() int {
	longest := 0
	for _, st := range s.steps {
		if n := len([]rune(st.Description)); n > longest {
			longest = n
		}
	}
	return longest
}
