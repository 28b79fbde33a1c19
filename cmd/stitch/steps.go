package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/export"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

const defaultWrap = 80

func newStepsCmd(_ *rootOptions) *cobra.Command {
	var asJSON, plain bool
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the tutorial steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && plain {
				return fmt.Errorf("--json and --plain are mutually exclusive")
			}
			tut := content.Stitching()
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeStepsJSON(out, tut)
			case plain || !isTerminalWriter(out):
				return writeStepsPlain(out, tut)
			default:
				return writeStepsMarkdown(out, tut, terminalWidth(out))
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print steps as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print steps as plain text")
	return cmd
}

func writeStepsJSON(w io.Writer, t model.Tutorial) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func writeStepsPlain(w io.Writer, t model.Tutorial) error {
	if _, err := fmt.Fprintf(w, "%s (%d steps)\n\n", t.Title, t.Len()); err != nil {
		return err
	}
	for i, st := range t.Steps {
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, st.DisplayText, st.Description); err != nil {
			return err
		}
	}
	return nil
}

func writeStepsMarkdown(w io.Writer, t model.Tutorial, width int) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(export.GenerateMarkdown(t))
	if err != nil {
		return fmt.Errorf("rendering steps: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return min(width, 120)
		}
	}
	return defaultWrap
}
