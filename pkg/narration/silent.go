package narration

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// baseWordsPerMinute is the speaking speed at Rate 1.0.
const baseWordsPerMinute = 175

// SilentEngine plays no audio but keeps the same timing and callback
// contract as a real engine: an utterance "plays" for as long as it would
// take to read aloud at the configured rate.
type SilentEngine struct {
	log   *zap.Logger
	scale float64

	mu   sync.Mutex
	cur  *silentPlayback
	next Utterance
}

type silentPlayback struct {
	id    Utterance
	timer *time.Timer
	opts  Options
}

// SilentOption configures a SilentEngine.
type SilentOption func(*SilentEngine)

// WithSilentLogger sets the logger.
func WithSilentLogger(log *zap.Logger) SilentOption {
	return func(e *SilentEngine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTimeScale multiplies simulated durations; tests use tiny values.
func WithTimeScale(scale float64) SilentOption {
	return func(e *SilentEngine) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// NewSilentEngine returns an engine that only simulates playback.
func NewSilentEngine(opts ...SilentOption) *SilentEngine {
	e := &SilentEngine{log: zap.NewNop(), scale: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the engine in logs and the UI.
func (e *SilentEngine) Name() string {
	return "silent"
}

// Duration estimates how long text takes to say at the given rate.
func Duration(text string, rate float64) time.Duration {
	if rate <= 0 {
		rate = DefaultVoice().Rate
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	minutes := float64(words) / (baseWordsPerMinute * rate)
	return time.Duration(minutes * float64(time.Minute))
}

// Speak implements Engine.
func (e *SilentEngine) Speak(text string, opts Options) (Utterance, error) {
	if err := validText(text); err != nil {
		return 0, err
	}
	_ = e.Stop()

	rate := opts.Voice.normalized().Rate
	d := time.Duration(float64(Duration(text, rate)) * e.scale)

	e.mu.Lock()
	e.next++
	pb := &silentPlayback{id: e.next, opts: opts}
	e.cur = pb
	e.mu.Unlock()

	e.log.Debug("silent narration", zap.Uint64("utterance", uint64(pb.id)), zap.Duration("duration", d))
	pb.opts.start()

	e.mu.Lock()
	if e.cur == pb {
		pb.timer = time.AfterFunc(d, func() { e.finish(pb) })
	}
	e.mu.Unlock()
	return pb.id, nil
}

func (e *SilentEngine) finish(pb *silentPlayback) {
	e.mu.Lock()
	if e.cur != pb {
		e.mu.Unlock()
		return
	}
	e.cur = nil
	e.mu.Unlock()
	pb.opts.done()
}

// Stop implements Engine.
func (e *SilentEngine) Stop() error {
	e.mu.Lock()
	pb := e.cur
	e.cur = nil
	var timer *time.Timer
	if pb != nil {
		timer = pb.timer
	}
	e.mu.Unlock()
	if pb == nil {
		return nil
	}
	// If the timer already fired, finish lost the race and reports nothing,
	// so Stop still owns the stopped callback.
	if timer != nil {
		timer.Stop()
	}
	pb.opts.stopped()
	return nil
}

// IsSpeaking implements Engine.
func (e *SilentEngine) IsSpeaking(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur != nil, nil
}
