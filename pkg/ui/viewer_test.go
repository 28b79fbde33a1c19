package ui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stitchwork/pkg/config"
	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/model"
	"github.com/vanderheijden86/stitchwork/pkg/motion"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
	"github.com/vanderheijden86/stitchwork/pkg/narration/narrationtest"
	"github.com/vanderheijden86/stitchwork/pkg/tutorial"
)

func newTestViewer(t *testing.T, steps []model.Step) (ViewerModel, *narrationtest.Fake) {
	t.Helper()
	fake := narrationtest.New()
	sess := tutorial.NewSession(steps, fake)
	m := NewViewerModel(sess, ViewerOptions{
		Title:  "Stitching Master Class",
		Config: config.DefaultConfig(),
		Theme:  plainTheme(),
		Gen:    1,
	})
	m.SetSize(80, 24)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should start the narration listener")
	}
	t.Cleanup(m.Close)
	return m, fake
}

func twoSteps() []model.Step {
	return []model.Step{
		{DisplayText: "First", Description: "Collect the fabric.", Image: content.ImageGather, VoiceNote: "x"},
		{DisplayText: "Second", Description: "Thread it.", Image: content.ImageThread, VoiceNote: ""},
	}
}

func TestViewerMountSpeaksFirstStep(t *testing.T) {
	m, fake := newTestViewer(t, twoSteps())
	if got := fake.Calls(); !reflect.DeepEqual(got, []string{"stop", "speak:x"}) {
		t.Errorf("calls = %v", got)
	}
	if !m.Session().IsNarrating() {
		t.Error("expected narrating after mount")
	}
	view := m.View()
	for _, want := range []string{"STEP 1/2", "First", labelNext, labelStop} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewerAdvanceAndFinish(t *testing.T) {
	m, fake := newTestViewer(t, twoSteps())
	fake.Reset()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil {
		t.Fatal("advance should start the pulse and the reveal")
	}
	if m.Session().Index() != 1 {
		t.Fatalf("index = %d, want 1", m.Session().Index())
	}
	if got := fake.Calls(); !reflect.DeepEqual(got, []string{"stop"}) {
		t.Errorf("advance calls = %v, want only stop", got)
	}
	view := m.View()
	for _, want := range []string{"STEP 2/2", labelFinish, labelPlay} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, cmd = m.Update(runes("n"))
	if m.Session().Index() != 1 {
		t.Errorf("index moved past the last step: %d", m.Session().Index())
	}
	msg := cmd()
	leave, ok := msg.(LeaveTutorialMsg)
	if !ok || !leave.Completed {
		t.Errorf("finish should leave with Completed, got %#v", msg)
	}
}

func TestViewerAdvancePulsesImage(t *testing.T) {
	m, _ := newTestViewer(t, content.Stitching().Steps)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})

	peak := m.ImageScale()
	for i := 0; i < 10; i++ {
		m, _ = m.Update(viewerFrameMsg{gen: m.gen})
		if s := m.ImageScale(); s > peak {
			peak = s
		}
	}
	if peak <= motion.ScaleRest {
		t.Errorf("pulse peak = %.3f, want above rest", peak)
	}

	var cmd tea.Cmd
	for i := 0; i < 60*motion.DefaultFPS && m.ticking; i++ {
		m, cmd = m.Update(viewerFrameMsg{gen: m.gen})
	}
	if m.ticking || cmd != nil {
		t.Error("frame loop should stop once the pulse settles")
	}
	if s := m.ImageScale(); s != motion.ScaleRest {
		t.Errorf("settled scale = %.3f, want %.1f", s, motion.ScaleRest)
	}
}

func TestViewerToggleVoice(t *testing.T) {
	steps := []model.Step{{DisplayText: "Only", Description: "d", VoiceNote: "y"}}
	m, fake := newTestViewer(t, steps)

	m, _ = m.Update(runes("v"))
	if m.Session().IsNarrating() {
		t.Fatal("v while narrating should stop")
	}
	if !strings.Contains(m.View(), labelPlay) {
		t.Error("button should offer Play Voice when idle")
	}

	fake.Reset()
	m, _ = m.Update(runes("v"))
	if got := fake.Spoken(); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("spoken = %v, want [y]", got)
	}
	if !m.Session().IsNarrating() {
		t.Error("v while idle should start narration")
	}
	if !strings.Contains(m.View(), labelStop) {
		t.Error("button should offer Stop Voice while narrating")
	}
}

func TestViewerNarrationEventsByGeneration(t *testing.T) {
	fake := narrationtest.New()
	fake.AutoStart = false
	sess := tutorial.NewSession(twoSteps(), fake)
	m := NewViewerModel(sess, ViewerOptions{Config: config.DefaultConfig(), Theme: plainTheme(), Gen: 4})
	m.Init()
	defer m.Close()

	fake.Start()
	ev, ok := sess.Wait(t.Context())
	if !ok {
		t.Fatal("expected a started event")
	}

	m, _ = m.Update(narrationMsg{gen: 3, ev: ev, ok: true})
	if m.Session().IsNarrating() {
		t.Error("event from an older viewer should be ignored")
	}
	m, cmd := m.Update(narrationMsg{gen: 4, ev: ev, ok: true})
	if !m.Session().IsNarrating() {
		t.Error("started event should set narrating")
	}
	if cmd == nil {
		t.Error("listener should re-arm after an event")
	}
	if _, cmd := m.Update(narrationMsg{gen: 4, ok: false}); cmd != nil {
		t.Error("listener should stop once the session closes")
	}
}

func TestViewerTypewriter(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	if m.Typed() != "" {
		t.Fatalf("typed = %q before any tick", m.Typed())
	}

	m, cmd := m.Update(typeTickMsg{gen: m.gen, step: 0})
	if m.Typed() != "C" {
		t.Errorf("typed = %q, want %q", m.Typed(), "C")
	}
	if cmd == nil {
		t.Error("reveal should continue")
	}

	// Ticks for another step are stale.
	m, _ = m.Update(typeTickMsg{gen: m.gen, step: 1})
	if m.Typed() != "C" {
		t.Errorf("stale tick changed text to %q", m.Typed())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Typed() != "Collect the fabric." {
		t.Errorf("tab should reveal everything, got %q", m.Typed())
	}
	if _, cmd := m.Update(typeTickMsg{gen: m.gen, step: 0}); cmd != nil {
		t.Error("no ticks after the text is complete")
	}
	if !strings.Contains(m.View(), "Collect the fabric.") {
		t.Error("description not rendered")
	}
}

func TestViewerHeaderCollapsesOnScroll(t *testing.T) {
	m, _ := newTestViewer(t, content.Stitching().Steps)
	m.SetSize(80, 16)

	cfg := config.DefaultConfig().HeaderConfig()
	if h := m.HeaderHeight(); h != cfg.Expanded {
		t.Fatalf("header at rest = %d, want %d", h, cfg.Expanded)
	}

	prev := m.HeaderHeight()
	for i := 0; i < 12; i++ {
		m, _ = m.Update(runes("j"))
		h := m.HeaderHeight()
		if h > prev {
			t.Fatalf("header grew from %d to %d while scrolling down", prev, h)
		}
		prev = h
	}
	if m.ScrollOffset() < int(cfg.Threshold) {
		t.Fatalf("offset = %d, want at least %v", m.ScrollOffset(), cfg.Threshold)
	}
	if h := m.HeaderHeight(); h != cfg.Collapsed {
		t.Errorf("scrolled header = %d, want %d", h, cfg.Collapsed)
	}
	if got := strings.Count(m.View(), "\n") + 1; got > 16 {
		t.Errorf("view is %d rows, want at most 16", got)
	}

	for i := 0; i < 20; i++ {
		m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	}
	if m.ScrollOffset() != 0 || m.HeaderHeight() != cfg.Expanded {
		t.Errorf("after wheel up: offset %d header %d", m.ScrollOffset(), m.HeaderHeight())
	}
}

func TestViewerButtonsClickable(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	row, nextX, voiceX := m.buttonRow()
	if !strings.Contains(row, labelNext) {
		t.Fatalf("button row %q", row)
	}
	y := strings.Count(m.renderHeader(), "\n") + 1 + m.vp.Height

	if got := m.buttonAt(voiceX, y); got != buttonVoice {
		t.Errorf("buttonAt voice = %v", got)
	}
	if got := m.buttonAt(nextX, y-1); got != buttonNone {
		t.Errorf("row above buttons = %v", got)
	}

	click := tea.MouseMsg{X: nextX + 1, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	m, _ = m.Update(click)
	if m.Session().Index() != 1 {
		t.Errorf("click on Next should advance, index %d", m.Session().Index())
	}
}

func TestViewerEscLeavesWithoutCompleting(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	leave, ok := cmd().(LeaveTutorialMsg)
	if !ok || leave.Completed {
		t.Errorf("esc should leave without completing, got %#v", leave)
	}
}

func TestViewerQuitStopsNarration(t *testing.T) {
	m, fake := newTestViewer(t, twoSteps())
	fake.Reset()
	m, cmd := m.Update(runes("q"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if !m.Session().Closed() {
		t.Error("quit should close the session")
	}
	if got := fake.Calls(); !reflect.DeepEqual(got, []string{"stop"}) {
		t.Errorf("calls = %v, want [stop]", got)
	}
}

func TestViewerHelpToggle(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	if strings.Contains(m.View(), "scroll down") {
		t.Fatal("full help shown before ?")
	}
	m, _ = m.Update(runes("?"))
	if !strings.Contains(m.View(), "scroll down") {
		t.Error("? should show full help")
	}
}

func TestViewerCopySetsStatus(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	m, cmd := m.Update(runes("y"))
	if cmd == nil {
		t.Fatal("copy should schedule a status clear")
	}
	view := m.View()
	if !strings.Contains(view, "Copied step") && !strings.Contains(view, "Clipboard error") {
		t.Error("copy should report its result")
	}
}

func TestViewerApplyConfig(t *testing.T) {
	m, fake := newTestViewer(t, twoSteps())

	cfg := config.DefaultConfig()
	cfg.Narration.Voice = narration.Voice{Language: "fr", Pitch: 1.2, Rate: 1.5}
	cfg.Motion.HeaderExpanded = 9
	cfg.Motion.FPS = 30
	m.ApplyConfig(cfg)

	if m.HeaderHeight() != 9 {
		t.Errorf("header = %d, want 9", m.HeaderHeight())
	}
	if m.fps != 30 {
		t.Errorf("fps = %d, want 30", m.fps)
	}

	m, _ = m.Update(runes("v")) // stop
	m, _ = m.Update(runes("v")) // start with the new voice
	if got := fake.LastOptions().Voice; got != cfg.Narration.Voice {
		t.Errorf("voice = %+v, want %+v", got, cfg.Narration.Voice)
	}
}

func TestViewerInitTickRevealsFirstRune(t *testing.T) {
	m, _ := newTestViewer(t, twoSteps())
	msgs := collect(m.startTyping(), 500*time.Millisecond)
	tick, ok := hasMsg[typeTickMsg](msgs)
	if !ok || tick.step != 0 || tick.gen != m.gen {
		t.Errorf("tick = %+v ok=%v", tick, ok)
	}
}
