// Package model defines the tutorial data types shared by the viewer, the
// content provider and the exporters.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTutorial is returned by Validate for a tutorial with no steps.
var ErrEmptyTutorial = errors.New("tutorial has no steps")

// ImageHandle is an opaque reference to a bundled illustration. Only the
// assets package interprets it.
type ImageHandle string

// Step is one unit of tutorial content.
type Step struct {
	DisplayText string      `json:"text" yaml:"text"`
	Description string      `json:"description" yaml:"description"`
	Image       ImageHandle `json:"image" yaml:"image"`
	VoiceNote   string      `json:"voice_note" yaml:"voice_note"`
	BannerText  string      `json:"banner_text,omitempty" yaml:"banner_text,omitempty"`
}

// HasNarration reports whether the step has anything to speak.
func (s Step) HasNarration() bool {
	return strings.TrimSpace(s.VoiceNote) != ""
}

// Banner returns the short banner label, falling back to DisplayText.
func (s Step) Banner() string {
	if b := strings.TrimSpace(s.BannerText); b != "" {
		return b
	}
	return s.DisplayText
}

// Tutorial is an ordered, fixed sequence of steps.
type Tutorial struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`                           // viewer header
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`         // home card
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"` // home card call to action
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Steps    []Step `json:"steps" yaml:"steps"`
}

// Len returns the number of steps.
func (t Tutorial) Len() int {
	return len(t.Steps)
}

// Validate checks the structural invariants the viewer relies on.
func (t Tutorial) Validate() error {
	if len(t.Steps) == 0 {
		return fmt.Errorf("tutorial %q: %w", t.ID, ErrEmptyTutorial)
	}
	for i, s := range t.Steps {
		if strings.TrimSpace(s.Description) == "" && strings.TrimSpace(s.DisplayText) == "" {
			return fmt.Errorf("tutorial %q: step %d has neither text nor description", t.ID, i+1)
		}
	}
	return nil
}
