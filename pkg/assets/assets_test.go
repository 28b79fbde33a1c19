package assets

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

func plainRenderer() *lipgloss.Renderer {
	// not a terminal, so no colour sequences
	return lipgloss.NewRenderer(io.Discard)
}

func opaquePixels(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func TestEveryStepHasAnIllustration(t *testing.T) {
	lib := NewLibrary()
	for _, step := range content.Stitching().Steps {
		if !lib.Has(step.Image) {
			t.Errorf("no painter for %q", step.Image)
			continue
		}
		img := lib.Image(step.Image)
		if got := img.Bounds().Size(); got != image.Pt(CanvasWidth, CanvasHeight) {
			t.Errorf("%q size = %v", step.Image, got)
		}
		if opaquePixels(img) == 0 {
			t.Errorf("%q painted nothing", step.Image)
		}
	}
}

func TestUnknownHandleIsPlaceholder(t *testing.T) {
	lib := NewLibrary()
	h := model.ImageHandle("quilting/unknown")
	if lib.Has(h) {
		t.Fatal("unexpected painter")
	}
	img := lib.Image(h)
	if img == nil || opaquePixels(img) == 0 {
		t.Error("placeholder should draw something")
	}
}

func TestImageIsCached(t *testing.T) {
	lib := NewLibrary()
	a := lib.Image(content.ImageStitch)
	b := lib.Image(content.ImageStitch)
	if a != b {
		t.Error("expected the cached image on second call")
	}
}

func TestRegisterReplacesCachedImage(t *testing.T) {
	lib := NewLibrary()
	h := model.ImageHandle("custom")
	before := lib.Image(h)

	lib.Register(h, paintDone)
	after := lib.Image(h)
	if before == after {
		t.Error("Register should invalidate the cached placeholder")
	}
	if !lib.Has(h) {
		t.Error("Has() = false after Register")
	}
}

func TestRenderDimensions(t *testing.T) {
	r := plainRenderer()
	img := Default().Image(content.ImageGather)

	tests := []struct {
		cols, rows int
		scale      float64
	}{
		{40, 10, 1},
		{24, 8, 1.1},
		{10, 20, 0.95},
		{1, 1, 1},
	}
	for _, tt := range tests {
		out := RenderWith(r, img, tt.cols, tt.rows, tt.scale)
		lines := strings.Split(out, "\n")
		if len(lines) != tt.rows {
			t.Errorf("%dx%d: %d lines", tt.cols, tt.rows, len(lines))
			continue
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w != tt.cols {
				t.Errorf("%dx%d line %d width = %d", tt.cols, tt.rows, i, w)
			}
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	img := Default().Image(content.ImageDone)
	if Render(img, 0, 5, 1) != "" || Render(img, 5, 0, 1) != "" || Render(nil, 5, 5, 1) != "" {
		t.Error("degenerate sizes should render empty")
	}
}

func TestRenderUsesHalfBlocks(t *testing.T) {
	out := RenderWith(plainRenderer(), Default().Image(content.ImageDone), 30, 10, 1)
	if !strings.ContainsAny(out, upperHalf+lowerHalf) {
		t.Error("expected half-block characters")
	}
}

func TestRenderTransparentIsBlank(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	out := RenderWith(plainRenderer(), img, 4, 2, 1)
	if strings.TrimSpace(strings.ReplaceAll(out, "\n", "")) != "" {
		t.Errorf("transparent image rendered %q", out)
	}
}

func TestScaleGrowsCoverage(t *testing.T) {
	img := Default().Image(content.ImageDone)
	rest := opaquePixels(rasterize(img, 40, 30, 1))
	peak := opaquePixels(rasterize(img, 40, 30, 1.1))
	pressed := opaquePixels(rasterize(img, 40, 30, 0.95))
	if !(pressed < rest && rest < peak) {
		t.Errorf("coverage pressed=%d rest=%d peak=%d", pressed, rest, peak)
	}
}

func TestCellsCache(t *testing.T) {
	lib := NewLibrary()
	r := plainRenderer()
	a := lib.Cells(r, content.ImageCut, 20, 6, 1.0001)
	b := lib.Cells(r, content.ImageCut, 20, 6, 1)
	if a != b {
		t.Error("scales within a hundredth should share a cache entry")
	}
	if len(lib.cells) != 1 {
		t.Errorf("cache entries = %d, want 1", len(lib.cells))
	}
	for i := 0; i < maxCachedCells+5; i++ {
		lib.Cells(r, content.ImageCut, 5+i, 2, 1)
	}
	if len(lib.cells) > maxCachedCells {
		t.Errorf("cache grew to %d", len(lib.cells))
	}
}

func TestHexUnpremultiplies(t *testing.T) {
	if got := hex(color.RGBA{0x40, 0x20, 0x00, 0x80}); got != lipgloss.Color("#7f3f00") {
		t.Errorf("hex = %v", got)
	}
	if got := hex(color.RGBA{}); got != lipgloss.Color("#000000") {
		t.Errorf("hex transparent = %v", got)
	}
}
