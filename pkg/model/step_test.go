package model

import (
	"errors"
	"testing"
)

func TestStepHasNarration(t *testing.T) {
	tests := []struct {
		name  string
		voice string
		want  bool
	}{
		{"empty", "", false},
		{"whitespace", "  \t\n", false},
		{"text", "Thread the needle.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Step{VoiceNote: tt.voice}).HasNarration(); got != tt.want {
				t.Errorf("HasNarration(%q) = %v, want %v", tt.voice, got, tt.want)
			}
		})
	}
}

func TestStepBannerFallsBackToDisplayText(t *testing.T) {
	s := Step{DisplayText: "Cut the thread"}
	if got := s.Banner(); got != "Cut the thread" {
		t.Errorf("Banner() = %q, want display text", got)
	}
	s.BannerText = "Cut the thread "
	if got := s.Banner(); got != "Cut the thread" {
		t.Errorf("Banner() = %q, want trimmed banner", got)
	}
}

func TestTutorialValidate(t *testing.T) {
	var empty Tutorial
	if err := empty.Validate(); !errors.Is(err, ErrEmptyTutorial) {
		t.Fatalf("expected ErrEmptyTutorial, got %v", err)
	}

	blank := Tutorial{ID: "x", Steps: []Step{{}}}
	if err := blank.Validate(); err == nil {
		t.Fatal("expected error for step with no text")
	}

	ok := Tutorial{ID: "x", Steps: []Step{{DisplayText: "A"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ok.Len())
	}
}
