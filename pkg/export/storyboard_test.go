package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{"PNG", FormatPNG},
		{".svg", FormatSVG},
		{"md", FormatMarkdown},
		{" markdown ", FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)
	assert.Len(t, Formats(), 3)
}

func TestExportPNGWritesOneFramePerStep(t *testing.T) {
	dir := t.TempDir()
	tut := content.Stitching()

	paths, err := Export(context.Background(), Options{
		Dir:         dir,
		Format:      FormatPNG,
		Tutorial:    tut,
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, paths, tut.Len())

	for i, p := range paths {
		assert.Equal(t, frameName(i, tut.Steps[i]), filepath.Base(p), "paths are in step order")
		f, err := os.Open(p)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, p)
		assert.Equal(t, FrameWidth, cfg.Width)
		assert.Equal(t, FrameHeight, cfg.Height)
	}
	assert.Equal(t, "01-gather-your-materials.png", filepath.Base(paths[0]))
}

func TestExportPNGHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Export(ctx, Options{Dir: t.TempDir(), Format: FormatPNG, Tutorial: content.Stitching()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderFrameDrawsIllustration(t *testing.T) {
	tut := content.Stitching()
	img := RenderFrame(assets.NewLibrary(), tut.Title, tut.Steps[0], 0, tut.Len())
	require.Equal(t, image.Rect(0, 0, FrameWidth, FrameHeight), img.Bounds())

	// The illustration area must differ from the plain backdrop.
	differs := 0
	for y := 90; y < 300; y += 4 {
		for x := 80; x < 400; x += 4 {
			r, g, b, _ := img.At(x, y).RGBA()
			if uint8(r>>8) != colorBackdrop.R || uint8(g>>8) != colorBackdrop.G || uint8(b>>8) != colorBackdrop.B {
				differs++
			}
		}
	}
	assert.Greater(t, differs, 100)
}

func TestExportSVG(t *testing.T) {
	dir := t.TempDir()
	paths, err := Export(context.Background(), Options{Dir: dir, Format: FormatSVG, Tutorial: content.Stitching()})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "stitching-storyboard.svg", filepath.Base(paths[0]))

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assertWellFormedXML(t, data)

	svg := string(data)
	assert.Equal(t, content.Stitching().Len(), strings.Count(svg, `id="step-`))
	assert.Contains(t, svg, "data:image/png;base64,")
	assert.Contains(t, svg, "STEP 7/7")
}

func TestWriteSVGEscapesText(t *testing.T) {
	tut := model.Tutorial{
		ID:    "esc",
		Title: "Tips & <tricks>",
		Steps: []model.Step{{DisplayText: "A & B", Description: "x < y"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, nil, tut))
	assertWellFormedXML(t, buf.Bytes())
	assert.Contains(t, buf.String(), "Tips &amp; &lt;tricks&gt;")
}

func TestWriteSVGSharedImage(t *testing.T) {
	tut := model.Tutorial{
		ID:    "dup",
		Title: "Dup",
		Steps: []model.Step{
			{DisplayText: "A", Image: content.ImageGather},
			{DisplayText: "B", Image: content.ImageGather},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, assets.NewLibrary(), tut))
	assert.Equal(t, 2, strings.Count(buf.String(), "data:image/png;base64,"))
}

func TestExportMarkdown(t *testing.T) {
	dir := t.TempDir()
	paths, err := Export(context.Background(), Options{Dir: filepath.Join(dir, "nested"), Format: FormatMarkdown, Tutorial: content.Stitching()})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, GenerateMarkdown(content.Stitching()), string(data))
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Export(ctx, Options{Dir: t.TempDir(), Format: FormatPNG, Tutorial: model.Tutorial{ID: "empty"}})
	assert.True(t, errors.Is(err, model.ErrEmptyTutorial), "got %v", err)

	_, err = Export(ctx, Options{Format: FormatPNG, Tutorial: content.Stitching()})
	assert.ErrorIs(t, err, ErrNoOutput)

	_, err = Export(ctx, Options{Dir: t.TempDir(), Format: "gif", Tutorial: content.Stitching()})
	assert.Error(t, err)
}

func TestWrapText(t *testing.T) {
	got := wrapText("Use scissors to trim any extra thread carefully.", 20)
	assert.Equal(t, []string{"Use scissors to trim", "any extra thread", "carefully."}, got)
	assert.Empty(t, wrapText("   ", 10))
}

func TestCSS(t *testing.T) {
	assert.Equal(t, "#ff79c6", css(colorAccent))
}

func assertWellFormedXML(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}
