// Package export writes a tutorial out as files: one PNG frame per step, a
// single SVG storyboard, or a markdown handout. Export reads the static step
// sequence only; no session state is involved.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/metrics"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// Format selects the export output.
type Format string

const (
	FormatPNG      Format = "png"
	FormatSVG      Format = "svg"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{FormatPNG, FormatSVG, FormatMarkdown}
}

// ParseFormat accepts a format name, case-insensitively. "md" is an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format %q (want png, svg or markdown)", s)
}

// ErrNoOutput is returned when Options.Dir is empty.
var ErrNoOutput = errors.New("output directory is required")

// Options controls an export run.
type Options struct {
	Dir      string
	Format   Format
	Tutorial model.Tutorial
	// Library resolves step images; assets.Default() when nil.
	Library *assets.Library
	// Concurrency bounds parallel PNG rendering; GOMAXPROCS when zero.
	Concurrency int
	Logger      *zap.Logger
}

// Export writes the tutorial in the requested format and returns the paths
// written, in step order for PNG.
func Export(ctx context.Context, opts Options) ([]string, error) {
	if err := opts.Tutorial.Validate(); err != nil {
		return nil, err
	}
	if opts.Dir == "" {
		return nil, ErrNoOutput
	}
	if opts.Library == nil {
		opts.Library = assets.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	defer metrics.Timer(metrics.Export)()

	var (
		paths []string
		err   error
	)
	switch opts.Format {
	case FormatPNG:
		paths, err = exportPNG(ctx, opts)
	case FormatSVG:
		var p string
		p, err = exportSVG(opts)
		paths = []string{p}
	case FormatMarkdown:
		var p string
		p, err = exportMarkdown(opts)
		paths = []string{p}
	default:
		return nil, fmt.Errorf("unsupported format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("export finished",
		zap.String("format", string(opts.Format)),
		zap.String("dir", opts.Dir),
		zap.Int("files", len(paths)))
	return paths, nil
}

func baseName(t model.Tutorial) string {
	if s := createSlug(t.ID); s != "" {
		return s
	}
	if s := createSlug(t.Title); s != "" {
		return s
	}
	return "tutorial"
}

func exportSVG(opts Options) (string, error) {
	path := filepath.Join(opts.Dir, baseName(opts.Tutorial)+"-storyboard.svg")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create svg: %w", err)
	}
	if err := WriteSVG(file, opts.Library, opts.Tutorial); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close svg: %w", err)
	}
	return path, nil
}

func exportMarkdown(opts Options) (string, error) {
	path := filepath.Join(opts.Dir, baseName(opts.Tutorial)+".md")
	if err := os.WriteFile(path, []byte(GenerateMarkdown(opts.Tutorial)), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}
	return path, nil
}

var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// createSlug creates a file- and URL-friendly slug from text.
func createSlug(text string) string {
	slug := strings.ToLower(text)
	slug = slugNonAlphanumericRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
