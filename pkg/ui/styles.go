package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceSM = 2 // button padding
	SpaceLG = 4 // gap between buttons
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS - step position indicators
// ══════════════════════════════════════════════════════════════════════════════

// RenderStepBar renders the [n/N] ███░░░ indicator used in the viewer header.
// At least one cell is filled on any step so the first step reads as started.
func RenderStepBar(current, total, width int, t Theme) string {
	if width <= 0 || total <= 0 {
		return ""
	}
	filled := (current * width) / total
	if filled < 1 && current > 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	r := t.Renderer
	return r.NewStyle().Foreground(t.Success).Render(strings.Repeat("█", filled)) +
		r.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
}

// RenderStepDots renders n decorative dots, the first lit.
func RenderStepDots(n int, t Theme) string {
	if n <= 0 {
		return ""
	}
	r := t.Renderer
	dots := make([]string, n)
	for i := range dots {
		c := t.Muted
		if i == 0 {
			c = t.Accent
		}
		dots[i] = r.NewStyle().Foreground(c).Render("●")
	}
	return strings.Join(dots, " ")
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
