package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/debug"
	"github.com/vanderheijden86/stitchwork/pkg/export"
	"github.com/vanderheijden86/stitchwork/pkg/metrics"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
		jobs   int
	)
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the tutorial as PNG frames, an SVG storyboard or markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			paths, err := export.Export(cmd.Context(), export.Options{
				Dir:         out,
				Format:      f,
				Tutorial:    content.Stitching(),
				Library:     assets.Default(),
				Concurrency: jobs,
				Logger:      debug.Logger(),
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintln(w, p)
			}
			if opts.metrics {
				return metrics.WriteSummary(cmd.ErrOrStderr())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPNG), "output format: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "stitch-export", "output directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel PNG renders (default GOMAXPROCS)")
	return cmd
}
