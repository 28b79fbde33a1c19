package narration

import (
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEspeakArgs(t *testing.T) {
	args := espeakArgs("hello", Voice{Language: "en", Pitch: 1, Rate: 0.9})
	assert.Equal(t, []string{"-v", "en", "-p", "50", "-s", "158", "hello"}, args)

	loud := espeakArgs("x", Voice{Language: "en", Pitch: 5, Rate: 10})
	assert.Equal(t, "99", loud[3], "pitch clamps to espeak maximum")
	assert.Equal(t, "450", loud[5], "speed clamps to espeak maximum")
}

func TestSpdSayArgs(t *testing.T) {
	args := spdSayArgs("hi", Voice{Language: "en", Pitch: 1, Rate: 0.9})
	assert.Equal(t, []string{"-w", "-l", "en", "-r", "-10", "-p", "0", "hi"}, args)
}

func TestSayArgsHasNoPitch(t *testing.T) {
	assert.Equal(t, []string{"-r", "175", "hi"}, sayArgs("hi", Voice{Rate: 1}))
}

func TestVoiceNormalized(t *testing.T) {
	assert.Equal(t, DefaultVoice(), Voice{}.normalized())
	v := Voice{Language: "fr", Pitch: 1.2, Rate: 1.1}
	assert.Equal(t, v, v.normalized())
}

func TestCommandEngineMissingBinary(t *testing.T) {
	e := NewCommandEngine(Speaker{Name: "nope", Binary: "stitch-no-such-speaker", Args: sayArgs})
	_, err := e.Speak("hello", Options{})
	require.ErrorIs(t, err, ErrNoEngine)

	speaking, err := e.IsSpeaking(context.Background())
	require.NoError(t, err)
	assert.False(t, speaking)
	require.NoError(t, e.Close())
}

// sleepSpeaker treats the text as the argument to sleep, which gives a
// long-running process to stop.
func sleepSpeaker(t *testing.T) Speaker {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sleep is not available on windows")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not on PATH")
	}
	return Speaker{Name: "sleep", Binary: "sleep", Args: func(text string, _ Voice) []string {
		return []string{text}
	}}
}

func TestCommandEngineStopReportsStopped(t *testing.T) {
	e := NewCommandEngine(sleepSpeaker(t))
	rec := newRecorder()

	_, err := e.Speak("30", rec.options())
	require.NoError(t, err)

	speaking, err := e.IsSpeaking(context.Background())
	require.NoError(t, err)
	assert.True(t, speaking)

	require.NoError(t, e.Stop())
	rec.wait(t)
	assert.Equal(t, []string{"start", "stopped"}, rec.snapshot())

	speaking, _ = e.IsSpeaking(context.Background())
	assert.False(t, speaking)
	require.NoError(t, e.Close())
}

func TestCommandEngineNaturalFinish(t *testing.T) {
	e := NewCommandEngine(sleepSpeaker(t))
	rec := newRecorder()

	_, err := e.Speak("0", rec.options())
	require.NoError(t, err)
	rec.wait(t)
	assert.Equal(t, []string{"start", "done"}, rec.snapshot())
	require.NoError(t, e.Close())
}

func TestCommandEngineFailure(t *testing.T) {
	e := NewCommandEngine(sleepSpeaker(t))
	rec := newRecorder()

	_, err := e.Speak("not-a-number", rec.options())
	require.NoError(t, err)
	rec.wait(t)
	assert.Equal(t, []string{"start", "error"}, rec.snapshot())
	require.NoError(t, e.Close())
}

func TestCommandEngineClosed(t *testing.T) {
	e := NewCommandEngine(sleepSpeaker(t))
	require.NoError(t, e.Close())
	_, err := e.Speak("1", Options{})
	assert.ErrorIs(t, err, ErrClosed)
}
