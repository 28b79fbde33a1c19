package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"git.sr.ht/~sbinet/gg"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// Frame geometry in pixels.
const (
	FrameWidth  = 480
	FrameHeight = 440

	frameMargin  = 16
	headerHeight = 44
	imageScale   = 2
	lineSpacing  = 1.4
)

var (
	colorBackdrop = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}
	colorHeaderBG = color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
	colorHeaderFG = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}
	colorAccent   = color.RGBA{R: 0xff, G: 0x79, B: 0xc6, A: 0xff}
	colorText     = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	colorSubtle   = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	colorTrack    = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	colorFill     = color.RGBA{R: 0x50, G: 0xfa, B: 0x7b, A: 0xff}
)

// RenderFrame draws one step as a printable card: a header with the step
// position, the illustration at double size, and the caption.
func RenderFrame(lib *assets.Library, title string, step model.Step, index, total int) image.Image {
	dc := gg.NewContext(FrameWidth, FrameHeight)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(frameMargin, frameMargin, FrameWidth-2*frameMargin, headerHeight, 8)
	dc.Fill()
	dc.SetColor(colorHeaderFG)
	dc.DrawStringAnchored(title, frameMargin+12, frameMargin+headerHeight/2, 0, 0.35)
	dc.SetColor(colorAccent)
	dc.DrawStringAnchored(fmt.Sprintf("STEP %d/%d", index+1, total),
		FrameWidth-frameMargin-12, frameMargin+headerHeight/2, 1, 0.35)

	// progress track under the header
	trackY := float64(frameMargin + headerHeight + 8)
	trackW := float64(FrameWidth - 2*frameMargin)
	dc.SetColor(colorTrack)
	dc.DrawRoundedRectangle(frameMargin, trackY, trackW, 4, 2)
	dc.Fill()
	dc.SetColor(colorFill)
	dc.DrawRoundedRectangle(frameMargin, trackY, trackW*float64(index+1)/float64(total), 4, 2)
	dc.Fill()

	// illustration
	src := lib.Image(step.Image)
	iw, ih := assets.CanvasWidth*imageScale, assets.CanvasHeight*imageScale
	x0 := (FrameWidth - iw) / 2
	y0 := int(trackY) + 12
	dst := image.NewRGBA(image.Rect(0, 0, iw, ih))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, x0, y0)

	// caption
	y := float64(y0 + ih + 24)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(step.DisplayText, FrameWidth/2, y, 0.5, 0.5)
	y += 22

	dc.SetColor(colorSubtle)
	_, lh := dc.MeasureString("M")
	for _, line := range dc.WordWrap(step.Description, FrameWidth-4*frameMargin) {
		dc.DrawStringAnchored(line, FrameWidth/2, y, 0.5, 0.5)
		y += lh * lineSpacing
	}
	return dc.Image()
}

// frameName is the file name for step index.
func frameName(index int, step model.Step) string {
	slug := createSlug(step.DisplayText)
	if slug == "" {
		slug = "step"
	}
	return fmt.Sprintf("%02d-%s.png", index+1, slug)
}

// exportPNG renders every step concurrently. Paths are returned in step
// order regardless of completion order.
func exportPNG(ctx context.Context, opts Options) ([]string, error) {
	t := opts.Tutorial
	paths := make([]string, len(t.Steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, step := range t.Steps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := RenderFrame(opts.Library, t.Title, step, i, len(t.Steps))
			path := filepath.Join(opts.Dir, frameName(i, step))
			if err := savePNG(path, img); err != nil {
				return err
			}
			opts.Logger.Debug("frame written", zap.Int("step", i), zap.String("path", path))
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func savePNG(path string, img image.Image) error {
	dc := gg.NewContextForImage(img)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := dc.EncodePNG(file); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}
