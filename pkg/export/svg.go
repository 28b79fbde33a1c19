package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/model"
)

// Storyboard grid geometry.
const (
	sbColumns    = 3
	sbCardW      = 280
	sbCardH      = 320
	sbGap        = 24
	sbHeader     = 84
	sbImageScale = 1.5
	sbWrapCells  = 36
)

// WriteSVG renders every step as a card on one storyboard page. Illustrations
// are embedded as PNG data URIs so the file stands alone.
func WriteSVG(w io.Writer, lib *assets.Library, t model.Tutorial) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if lib == nil {
		lib = assets.Default()
	}

	cols := min(sbColumns, len(t.Steps))
	rows := (len(t.Steps) + cols - 1) / cols
	width := sbGap + cols*(sbCardW+sbGap)
	height := sbHeader + rows*(sbCardH+sbGap) + sbGap

	images := make(map[model.ImageHandle]string)
	for _, st := range t.Steps {
		if _, ok := images[st.Image]; ok {
			continue
		}
		uri, err := dataURI(lib, st.Image)
		if err != nil {
			return err
		}
		images[st.Image] = uri
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(t.Title)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	canvas.Roundrect(sbGap, 16, width-2*sbGap, sbHeader-32, 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(sbGap+16, 44, t.Title,
		fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorHeaderFG)))
	canvas.Text(width-sbGap-16, 44, fmt.Sprintf("%d steps", len(t.Steps)),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;text-anchor:end", css(colorAccent)))

	for i, st := range t.Steps {
		x := sbGap + (i%cols)*(sbCardW+sbGap)
		y := sbHeader + (i/cols)*(sbCardH+sbGap)
		drawCardSVG(canvas, x, y, i, len(t.Steps), st, images[st.Image])
	}

	canvas.End()
	return nil
}

func drawCardSVG(canvas *svg.SVG, x, y, index, total int, st model.Step, image string) {
	canvas.Group(fmt.Sprintf(`id="step-%d"`, index+1))
	canvas.Roundrect(x, y, sbCardW, sbCardH, 12, 12,
		fmt.Sprintf("fill:#ffffff;stroke:%s;stroke-width:1.2", css(colorTrack)))

	canvas.Circle(x+22, y+22, 13, fmt.Sprintf("fill:%s", css(colorAccent)))
	canvas.Text(x+22, y+27, fmt.Sprintf("%d", index+1),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold;text-anchor:middle", css(colorHeaderBG)))
	canvas.Text(x+sbCardW-14, y+27, fmt.Sprintf("STEP %d/%d", index+1, total),
		fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", css(colorSubtle)))

	iw := int(assets.CanvasWidth * sbImageScale)
	ih := int(assets.CanvasHeight * sbImageScale)
	canvas.Image(x+(sbCardW-iw)/2, y+44, iw, ih, image)

	ty := y + 44 + ih + 24
	canvas.Text(x+sbCardW/2, ty, truncate(st.DisplayText, sbWrapCells),
		fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold;text-anchor:middle", css(colorText)))
	for _, line := range wrapText(st.Description, sbWrapCells) {
		ty += 16
		canvas.Text(x+sbCardW/2, ty, line,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}
	canvas.Gend()
}

func dataURI(lib *assets.Library, h model.ImageHandle) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, lib.Image(h)); err != nil {
		return "", fmt.Errorf("encode %s: %w", h, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// wrapText breaks text on spaces into lines of at most width cells.
func wrapText(text string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && runewidth.StringWidth(cur.String())+1+runewidth.StringWidth(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
