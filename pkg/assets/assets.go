// Package assets resolves step image handles to pictures. The stitching
// illustrations are painted procedurally with gg so the binary carries no
// image files; unknown handles get a placeholder.
package assets

import (
	"image"
	"image/color"
	"sync"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// Canvas size of every bundled illustration, in pixels.
const (
	CanvasWidth  = 160
	CanvasHeight = 120
)

// Painter draws one illustration onto a CanvasWidth x CanvasHeight context
// with a transparent background.
type Painter func(dc *gg.Context)

// Library maps handles to painters and caches the painted images and their
// terminal renderings.
type Library struct {
	mu       sync.Mutex
	painters map[model.ImageHandle]Painter
	images   map[model.ImageHandle]image.Image
	cells    map[cellKey]string
}

// NewLibrary returns a library with the stitching illustrations registered.
func NewLibrary() *Library {
	l := &Library{
		painters: make(map[model.ImageHandle]Painter),
		images:   make(map[model.ImageHandle]image.Image),
		cells:    make(map[cellKey]string),
	}
	l.Register(content.ImageGather, paintGather)
	l.Register(content.ImageThread, paintThread)
	l.Register(content.ImageDrawLine, paintDrawLine)
	l.Register(content.ImageStitch, paintStitch)
	l.Register(content.ImageTieOff, paintTieOff)
	l.Register(content.ImageCut, paintCut)
	l.Register(content.ImageDone, paintDone)
	return l
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the shared library.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = NewLibrary()
	})
	return defaultLib
}

// Register adds or replaces the painter for h.
func (l *Library) Register(h model.ImageHandle, p Painter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.painters[h] = p
	delete(l.images, h)
	for k := range l.cells {
		if k.handle == h {
			delete(l.cells, k)
		}
	}
}

// Has reports whether h has a registered painter.
func (l *Library) Has(h model.ImageHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.painters[h]
	return ok
}

// Image returns the picture for h, painting it on first use. Unknown
// handles return the placeholder.
func (l *Library) Image(h model.ImageHandle) image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.imageLocked(h)
}

func (l *Library) imageLocked(h model.ImageHandle) image.Image {
	if img, ok := l.images[h]; ok {
		return img
	}
	p, ok := l.painters[h]
	if !ok {
		p = paintPlaceholder
	}
	dc := gg.NewContext(CanvasWidth, CanvasHeight)
	p(dc)
	img := dc.Image()
	l.images[h] = img
	return img
}

// Palette shared by the illustrations.
var (
	colorFabric      = color.RGBA{0xe8, 0xd5, 0xb7, 0xff}
	colorFabricEdge  = color.RGBA{0xb8, 0x9f, 0x78, 0xff}
	colorThread      = color.RGBA{0xff, 0x55, 0x8a, 0xff}
	colorThreadDark  = color.RGBA{0xc2, 0x2f, 0x62, 0xff}
	colorNeedle      = color.RGBA{0xcf, 0xd6, 0xdf, 0xff}
	colorNeedleShade = color.RGBA{0x7c, 0x86, 0x94, 0xff}
	colorChalk       = color.RGBA{0x5b, 0x7c, 0xd6, 0xff}
	colorWood        = color.RGBA{0xd9, 0x9a, 0x5b, 0xff}
	colorHandle      = color.RGBA{0xbd, 0x93, 0xf9, 0xff}
	colorSuccess     = color.RGBA{0x50, 0xfa, 0x7b, 0xff}
	colorGold        = color.RGBA{0xf1, 0xfa, 0x8c, 0xff}
	colorMuted       = color.RGBA{0x62, 0x72, 0xa4, 0xff}
	colorInk         = color.RGBA{0x28, 0x2a, 0x36, 0xff}
)
