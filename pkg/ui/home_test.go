package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/motion"
)

func newTestHome() HomeModel {
	h := NewHomeModel(content.Stitching(), plainTheme(), motion.DefaultFPS)
	h.SetSize(80, 24)
	return h
}

func TestHomeView(t *testing.T) {
	h := newTestHome()
	view := h.View()
	for _, want := range []string{
		"Stitching Training",
		"Vocational Training Guide",
		"Stitching Master",
		"Start Training →",
		"●",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("home view missing %q", want)
		}
	}
}

func TestHomeEnterPressesThenStarts(t *testing.T) {
	h := newTestHome()

	h, cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !h.Pressed() {
		t.Fatal("enter should press the card")
	}
	if cmd == nil {
		t.Fatal("expected frame and release commands")
	}

	// A second press while held is ignored.
	if _, cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("repeat enter should be ignored while pressed")
	}

	h, cmd = h.Update(homeReleaseMsg{})
	if h.Pressed() {
		t.Error("release should lift the card")
	}
	msgs := collect(cmd, 200*time.Millisecond)
	if _, ok := hasMsg[StartTutorialMsg](msgs); !ok {
		t.Errorf("release should start the tutorial, got %v", msgs)
	}
}

func TestHomePressShrinksCard(t *testing.T) {
	h := newTestHome()
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 30; i++ {
		h, _ = h.Update(homeFrameMsg{})
	}
	if s := h.Scale(); s >= motion.ScaleRest {
		t.Errorf("pressed scale = %.3f, want below rest", s)
	}
}

func TestHomeFrameLoopStopsWhenSettled(t *testing.T) {
	h := newTestHome()
	_, cmd := h.Update(homeFrameMsg{})
	if cmd != nil {
		t.Error("settled spring should not schedule another frame")
	}
}

func TestHomeMouse(t *testing.T) {
	h := newTestHome()
	_, _, _, cx, cy := h.layout()

	outside := tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	if h2, _ := h.Update(outside); h2.Pressed() {
		t.Error("press outside the card should be ignored")
	}

	inside := tea.MouseMsg{X: cx + 2, Y: cy + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	if !h.CardHit(inside.X, inside.Y) {
		t.Fatalf("(%d,%d) should hit the card", inside.X, inside.Y)
	}
	h, _ = h.Update(inside)
	if !h.Pressed() {
		t.Fatal("press on the card should hold it")
	}

	release := tea.MouseMsg{X: cx + 2, Y: cy + 1, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
	h, cmd := h.Update(release)
	if h.Pressed() {
		t.Error("mouse release should lift the card")
	}
	if _, ok := hasMsg[StartTutorialMsg](collect(cmd, 200*time.Millisecond)); !ok {
		t.Error("mouse release should start the tutorial")
	}
}

func TestHomeMouseReleaseOffCardCancels(t *testing.T) {
	h := newTestHome()
	_, _, _, cx, cy := h.layout()

	h, _ = h.Update(tea.MouseMsg{X: cx + 2, Y: cy + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !h.Pressed() {
		t.Fatal("press on the card should hold it")
	}

	h, cmd := h.Update(tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})
	if h.Pressed() {
		t.Error("release off the card should still lift it")
	}
	if _, ok := hasMsg[StartTutorialMsg](collect(cmd, 60*time.Millisecond)); ok {
		t.Error("release off the card should not start the tutorial")
	}
	if h.scale.Target() != motion.ScaleRest {
		t.Errorf("card should spring back to rest, target %.2f", h.scale.Target())
	}
}

func TestHomeSettle(t *testing.T) {
	h := newTestHome()
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	old := h.frameGen
	h.Settle()

	if h.Pressed() || h.Animating() {
		t.Error("settle should release the card and stop the frame loop")
	}
	if h.Scale() != motion.ScaleRest {
		t.Errorf("scale = %.3f, want rest", h.Scale())
	}
	if _, cmd := h.Update(homeFrameMsg{gen: old}); cmd != nil {
		t.Error("frames from the abandoned loop should be dropped")
	}
}

func TestHomeQuit(t *testing.T) {
	h := newTestHome()
	_, cmd := h.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestHomeStatus(t *testing.T) {
	h := newTestHome()
	cmd := h.SetStatus("Training complete", false)
	if cmd == nil {
		t.Fatal("status should schedule its own removal")
	}
	if !strings.Contains(h.View(), "Training complete") {
		t.Error("status not shown")
	}

	h, _ = h.Update(homeClearStatusMsg{seq: h.statusSeq - 1})
	if !strings.Contains(h.View(), "Training complete") {
		t.Error("stale clear should not hide a newer status")
	}
	h, _ = h.Update(homeClearStatusMsg{seq: h.statusSeq})
	if strings.Contains(h.View(), "Training complete") {
		t.Error("status should clear")
	}
}

func TestHomeSetFPSKeepsScale(t *testing.T) {
	h := newTestHome()
	h.SetFPS(30)
	if h.fps != 30 {
		t.Errorf("fps = %d, want 30", h.fps)
	}
	if h.Scale() != motion.ScaleRest {
		t.Errorf("scale = %.3f, want rest", h.Scale())
	}
	h.SetFPS(0)
	if h.fps != 30 {
		t.Error("non-positive fps should be ignored")
	}
}
