package assets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/vanderheijden86/stitchwork/pkg/metrics"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// Terminal cells are roughly twice as tall as wide; a half block splits a
// cell into two square pixels.
const (
	upperHalf = "▀"
	lowerHalf = "▄"

	// alphaCutoff treats faint antialiasing fringes as background.
	alphaCutoff = 0x50

	maxCachedCells = 64
)

type cellKey struct {
	handle     model.ImageHandle
	cols, rows int
	scale      int // hundredths
}

// Render draws img into a cols x rows block of half-block characters using
// the default lipgloss renderer. See RenderWith.
func Render(img image.Image, cols, rows int, scale float64) string {
	return RenderWith(lipgloss.DefaultRenderer(), img, cols, rows, scale)
}

// RenderWith draws img into a cols x rows block of half-block characters.
// The image is fitted inside the block keeping its aspect ratio, then
// scaled about the centre by scale (1 is a fit; above 1 crops the edges).
// Every line is exactly cols cells wide.
func RenderWith(r *lipgloss.Renderer, img image.Image, cols, rows int, scale float64) string {
	if cols <= 0 || rows <= 0 || img == nil {
		return ""
	}
	start := time.Now()
	defer func() { metrics.ImageRaster.Record(time.Since(start)) }()

	px := rasterize(img, cols, rows*2, scale)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			b.WriteString(cell(r, px.RGBAAt(x, 2*y), px.RGBAAt(x, 2*y+1)))
		}
	}
	return b.String()
}

// Cells renders the image for h at the given size, caching the result.
// The scale is quantized to hundredths so spring animations hit the cache
// once they settle.
func (l *Library) Cells(r *lipgloss.Renderer, h model.ImageHandle, cols, rows int, scale float64) string {
	key := cellKey{handle: h, cols: cols, rows: rows, scale: int(math.Round(scale * 100))}

	l.mu.Lock()
	if s, ok := l.cells[key]; ok {
		l.mu.Unlock()
		return s
	}
	img := l.imageLocked(h)
	l.mu.Unlock()

	s := RenderWith(r, img, cols, rows, float64(key.scale)/100)

	l.mu.Lock()
	if len(l.cells) >= maxCachedCells {
		clear(l.cells)
	}
	l.cells[key] = s
	l.mu.Unlock()
	return s
}

// rasterize scales img onto a w x h transparent canvas.
func rasterize(img image.Image, w, h int, scale float64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := img.Bounds()
	if sb.Empty() {
		return dst
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}

	fit := math.Min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy())) * scale
	dw := float64(sb.Dx()) * fit
	dh := float64(sb.Dy()) * fit
	x0 := (float64(w) - dw) / 2
	y0 := (float64(h) - dh) / 2
	dr := image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+dw)), int(math.Round(y0+dh)),
	)
	if dr.Empty() {
		return dst
	}
	draw.BiLinear.Scale(dst, dr, img, sb, draw.Over, nil)
	return dst
}

func cell(r *lipgloss.Renderer, top, bottom color.RGBA) string {
	topOn := top.A >= alphaCutoff
	bottomOn := bottom.A >= alphaCutoff
	switch {
	case !topOn && !bottomOn:
		return " "
	case topOn && !bottomOn:
		return r.NewStyle().Foreground(hex(top)).Render(upperHalf)
	case !topOn && bottomOn:
		return r.NewStyle().Foreground(hex(bottom)).Render(lowerHalf)
	default:
		return r.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render(upperHalf)
	}
}

// hex converts a premultiplied pixel to an opaque lipgloss colour.
func hex(c color.RGBA) lipgloss.Color {
	if c.A == 0 {
		return lipgloss.Color("#000000")
	}
	un := func(v uint8) uint8 {
		return uint8(min(255, int(v)*255/int(c.A)))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", un(c.R), un(c.G), un(c.B)))
}
