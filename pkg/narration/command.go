package narration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// stopTimeout bounds how long Stop waits for a killed process to exit.
const stopTimeout = 2 * time.Second

// Speaker describes an external text-to-speech program.
type Speaker struct {
	Name   string
	Binary string
	Args   func(text string, v Voice) []string
}

// Known speakers, in detection order.
var (
	SpeakerEspeakNG = Speaker{Name: "espeak-ng", Binary: "espeak-ng", Args: espeakArgs}
	SpeakerEspeak   = Speaker{Name: "espeak", Binary: "espeak", Args: espeakArgs}
	SpeakerSay      = Speaker{Name: "say", Binary: "say", Args: sayArgs}
	SpeakerSpdSay   = Speaker{Name: "spd-say", Binary: "spd-say", Args: spdSayArgs}
)

// KnownSpeakers lists the speakers Detect tries.
func KnownSpeakers() []Speaker {
	return []Speaker{SpeakerEspeakNG, SpeakerEspeak, SpeakerSay, SpeakerSpdSay}
}

// espeak: pitch 0-99 (50 normal), speed in words per minute (175 normal).
func espeakArgs(text string, v Voice) []string {
	pitch := clampInt(int(math.Round(50*v.Pitch)), 0, 99)
	wpm := clampInt(int(math.Round(175*v.Rate)), 80, 450)
	return []string{"-v", v.Language, "-p", strconv.Itoa(pitch), "-s", strconv.Itoa(wpm), text}
}

// say has no pitch control.
func sayArgs(text string, v Voice) []string {
	wpm := clampInt(int(math.Round(175*v.Rate)), 90, 500)
	return []string{"-r", strconv.Itoa(wpm), text}
}

// spd-say: rate and pitch in -100..100, -w blocks until speech finishes.
func spdSayArgs(text string, v Voice) []string {
	rate := clampInt(int(math.Round((v.Rate-1)*100)), -100, 100)
	pitch := clampInt(int(math.Round((v.Pitch-1)*100)), -100, 100)
	return []string{"-w", "-l", v.Language, "-r", strconv.Itoa(rate), "-p", strconv.Itoa(pitch), text}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type playback struct {
	id      Utterance
	cmd     *exec.Cmd
	opts    Options
	stopped bool
	done    chan struct{}
}

// CommandEngine narrates by running an external speech program, one process
// per utterance.
type CommandEngine struct {
	speaker Speaker
	voice   Voice
	log     *zap.Logger

	mu     sync.Mutex
	cur    *playback
	next   Utterance
	closed bool
	wg     sync.WaitGroup
}

// CommandOption configures a CommandEngine.
type CommandOption func(*CommandEngine)

// WithCommandLogger sets the logger.
func WithCommandLogger(log *zap.Logger) CommandOption {
	return func(e *CommandEngine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithDefaultVoice sets the voice used for zero fields in Options.
func WithDefaultVoice(v Voice) CommandOption {
	return func(e *CommandEngine) {
		e.voice = v.normalized()
	}
}

// NewCommandEngine returns an engine for the given speaker. The binary is
// resolved lazily on each Speak.
func NewCommandEngine(s Speaker, opts ...CommandOption) *CommandEngine {
	e := &CommandEngine{
		speaker: s,
		voice:   DefaultVoice(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the speaker name.
func (e *CommandEngine) Name() string {
	return e.speaker.Name
}

// Speak implements Engine.
func (e *CommandEngine) Speak(text string, opts Options) (Utterance, error) {
	if err := validText(text); err != nil {
		return 0, err
	}
	if err := e.Stop(); err != nil {
		return 0, err
	}

	voice := opts.Voice
	if voice == (Voice{}) {
		voice = e.voice
	}
	voice = voice.normalized()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, ErrClosed
	}
	path, err := exec.LookPath(e.speaker.Binary)
	if err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", e.speaker.Name, ErrNoEngine)
	}

	cmd := exec.Command(path, e.speaker.Args(text, voice)...)
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("starting %s: %w", e.speaker.Name, err)
	}

	e.next++
	pb := &playback{id: e.next, cmd: cmd, opts: opts, done: make(chan struct{})}
	e.cur = pb
	e.wg.Add(1)
	e.mu.Unlock()

	e.log.Debug("narration started",
		zap.String("speaker", e.speaker.Name),
		zap.Uint64("utterance", uint64(pb.id)),
		zap.Int("pid", cmd.Process.Pid))

	go e.wait(pb)
	return pb.id, nil
}

func (e *CommandEngine) wait(pb *playback) {
	defer e.wg.Done()
	pb.opts.start()

	err := pb.cmd.Wait()

	e.mu.Lock()
	stopped := pb.stopped
	if e.cur == pb {
		e.cur = nil
	}
	close(pb.done)
	e.mu.Unlock()

	switch {
	case stopped:
		pb.opts.stopped()
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%s exited with status %d: %w", e.speaker.Name, exitErr.ExitCode(), err)
		}
		e.log.Warn("narration failed", zap.Uint64("utterance", uint64(pb.id)), zap.Error(err))
		pb.opts.fail(err)
	default:
		pb.opts.done()
	}
}

// Stop implements Engine.
func (e *CommandEngine) Stop() error {
	e.mu.Lock()
	pb := e.cur
	if pb == nil {
		e.mu.Unlock()
		return nil
	}
	pb.stopped = true
	e.cur = nil
	killErr := killProcessGroup(pb.cmd)
	e.mu.Unlock()

	select {
	case <-pb.done:
	case <-time.After(stopTimeout):
		return fmt.Errorf("%s did not exit within %v", e.speaker.Name, stopTimeout)
	}
	if killErr != nil {
		e.log.Debug("kill speech process", zap.Error(killErr))
	}
	return nil
}

// IsSpeaking implements Engine.
func (e *CommandEngine) IsSpeaking(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur != nil, nil
}

// Close stops playback and waits for the helper goroutines to finish.
func (e *CommandEngine) Close() error {
	err := e.Stop()
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
	return err
}
