package motion

import (
	"time"
)

// Typewriter reveals text one rune at a time with a jittered delay between
// runes. The jitter is derived from the rune index, so the reveal schedule is
// a pure function of the text.
type Typewriter struct {
	text     []rune
	shown    int
	minDelay time.Duration
	maxDelay time.Duration
}

// NewTypewriter prepares a reveal of text.
func NewTypewriter(text string, minDelay, maxDelay time.Duration) Typewriter {
	if minDelay <= 0 {
		minDelay = 20 * time.Millisecond
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return Typewriter{text: []rune(text), minDelay: minDelay, maxDelay: maxDelay}
}

// Advance reveals one more rune and reports whether more remain.
func (t *Typewriter) Advance() bool {
	if t.shown < len(t.text) {
		t.shown++
	}
	return !t.Done()
}

// Skip reveals the whole text.
func (t *Typewriter) Skip() {
	t.shown = len(t.text)
}

// Done reports whether everything has been revealed.
func (t Typewriter) Done() bool {
	return t.shown >= len(t.text)
}

// Visible returns the revealed prefix.
func (t Typewriter) Visible() string {
	return string(t.text[:t.shown])
}

// Full returns the whole text.
func (t Typewriter) Full() string {
	return string(t.text)
}

// Shown returns how many runes are visible.
func (t Typewriter) Shown() int {
	return t.shown
}

// NextDelay returns the wait before the next rune appears.
func (t Typewriter) NextDelay() time.Duration {
	return jitter(t.shown, t.minDelay, t.maxDelay)
}

func jitter(i int, lo, hi time.Duration) time.Duration {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	// Knuth multiplicative hash keeps the sequence stable across runs.
	h := uint32(i+1) * 2654435761
	return lo + time.Duration(uint64(h)%uint64(span+1))
}
