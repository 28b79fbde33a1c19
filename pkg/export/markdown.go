package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// sanitizeMermaidText prepares text for use in Mermaid node labels.
// Removes/escapes characters that break Mermaid syntax.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = strings.TrimSpace(result)

	runes := []rune(result)
	if len(runes) > 40 {
		result = string(runes[:37]) + "..."
	}
	return result
}

// GenerateMermaidFlow returns a left-to-right flowchart of the steps.
func GenerateMermaidFlow(t model.Tutorial) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    classDef step fill:#BD93F9,stroke:#333,color:#000\n")
	sb.WriteString("    classDef done fill:#50FA7B,stroke:#333,color:#000\n")
	for i, st := range t.Steps {
		class := "step"
		if i == len(t.Steps)-1 {
			class = "done"
		}
		fmt.Fprintf(&sb, "    s%d[\"%d. %s\"]:::%s\n", i+1, i+1, sanitizeMermaidText(st.DisplayText), class)
	}
	for i := 1; i < len(t.Steps); i++ {
		fmt.Fprintf(&sb, "    s%d --> s%d\n", i, i+1)
	}
	return sb.String()
}

// GenerateMarkdown renders the tutorial as a printable handout: a flowchart,
// a table of contents and one section per step.
func GenerateMarkdown(t model.Tutorial) string {
	var sb strings.Builder

	title := t.Title
	if t.Icon != "" {
		title = t.Icon + " " + title
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if t.Subtitle != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", t.Subtitle)
	}
	fmt.Fprintf(&sb, "%d steps.\n\n", len(t.Steps))

	sb.WriteString("```mermaid\n")
	sb.WriteString(GenerateMermaidFlow(t))
	sb.WriteString("```\n\n")

	sb.WriteString("## Contents\n\n")
	counts := make(map[string]int)
	slugs := make([]string, len(t.Steps))
	for i, st := range t.Steps {
		heading := stepHeading(i, st)
		slugs[i] = uniqueSlug(createSlug(heading), counts)
		fmt.Fprintf(&sb, "%d. [%s](#%s)\n", i+1, st.DisplayText, slugs[i])
	}
	sb.WriteString("\n")

	for i, st := range t.Steps {
		fmt.Fprintf(&sb, "## %s\n\n", stepHeading(i, st))
		if st.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", st.Description)
		}
		if st.HasNarration() && strings.TrimSpace(st.VoiceNote) != strings.TrimSpace(st.Description) {
			fmt.Fprintf(&sb, "> 🔊 %s\n\n", st.VoiceNote)
		}
	}
	return sb.String()
}

func stepHeading(i int, st model.Step) string {
	return fmt.Sprintf("Step %d: %s", i+1, st.DisplayText)
}

func uniqueSlug(base string, counts map[string]int) string {
	if base == "" {
		base = "section"
	}
	if count, ok := counts[base]; ok {
		count++
		counts[base] = count
		return fmt.Sprintf("%s-%d", base, count)
	}
	counts[base] = 0
	return base
}
