package assets

import (
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// fabric draws the cloth swatch most steps sit on.
func fabric(dc *gg.Context, x, y, w, h float64) {
	dc.SetColor(colorFabric)
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Fill()
	dc.SetColor(colorFabricEdge)
	dc.SetLineWidth(2)
	dc.SetDash(3, 3)
	dc.DrawRoundedRectangle(x+5, y+5, w-10, h-10, 4)
	dc.Stroke()
	dc.SetDash()
}

// needle draws a needle from (x1,y1) point to (x2,y2) eye.
func needle(dc *gg.Context, x1, y1, x2, y2 float64) {
	dc.SetLineCapRound()
	dc.SetColor(colorNeedleShade)
	dc.SetLineWidth(5)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	dc.SetColor(colorNeedle)
	dc.SetLineWidth(3)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	// eye
	angle := math.Atan2(y2-y1, x2-x1)
	ex := x2 - 6*math.Cos(angle)
	ey := y2 - 6*math.Sin(angle)
	dc.Push()
	dc.RotateAbout(angle, ex, ey)
	dc.SetColor(colorInk)
	dc.DrawEllipse(ex, ey, 3, 1.2)
	dc.Fill()
	dc.Pop()
}

// runningStitch draws n dashes of thread along y between x1 and x2.
func runningStitch(dc *gg.Context, x1, x2, y float64, n int) {
	dc.SetLineCapRound()
	dc.SetColor(colorThread)
	dc.SetLineWidth(3)
	step := (x2 - x1) / float64(2*n-1)
	for i := 0; i < n; i++ {
		sx := x1 + float64(2*i)*step
		dc.DrawLine(sx, y, sx+step, y)
		dc.Stroke()
	}
}

func spool(dc *gg.Context, cx, cy float64) {
	dc.SetColor(colorWood)
	dc.DrawRoundedRectangle(cx-16, cy-24, 32, 6, 2)
	dc.Fill()
	dc.DrawRoundedRectangle(cx-16, cy+18, 32, 6, 2)
	dc.Fill()
	dc.SetColor(colorThread)
	dc.DrawRectangle(cx-12, cy-18, 24, 36)
	dc.Fill()
	dc.SetColor(colorThreadDark)
	dc.SetLineWidth(1)
	for y := cy - 15; y < cy+18; y += 4 {
		dc.DrawLine(cx-12, y, cx+12, y+2)
		dc.Stroke()
	}
}

func scissors(dc *gg.Context, cx, cy, angle float64) {
	dc.Push()
	dc.RotateAbout(angle, cx, cy)
	dc.SetLineCapRound()
	dc.SetColor(colorNeedleShade)
	dc.SetLineWidth(4)
	dc.DrawLine(cx-4, cy+4, cx+26, cy-10)
	dc.Stroke()
	dc.DrawLine(cx-4, cy-4, cx+26, cy+10)
	dc.Stroke()
	dc.SetColor(colorHandle)
	dc.SetLineWidth(3)
	dc.DrawCircle(cx-12, cy-8, 7)
	dc.Stroke()
	dc.DrawCircle(cx-12, cy+8, 7)
	dc.Stroke()
	dc.SetColor(colorInk)
	dc.DrawCircle(cx, cy, 2)
	dc.Fill()
	dc.Pop()
}

func knot(dc *gg.Context, cx, cy float64) {
	dc.SetColor(colorThreadDark)
	dc.DrawCircle(cx, cy, 6)
	dc.Fill()
	dc.SetColor(colorThread)
	dc.SetLineWidth(2)
	dc.DrawArc(cx, cy, 9, gg.Radians(200), gg.Radians(340))
	dc.Stroke()
}

func paintGather(dc *gg.Context) {
	fabric(dc, 12, 30, 60, 70)
	spool(dc, 92, 64)
	needle(dc, 122, 100, 146, 34)
	scissors(dc, 104, 106, gg.Radians(-10))
}

func paintThread(dc *gg.Context) {
	needle(dc, 30, 100, 118, 24)

	// thread entering the eye and trailing down to a knot
	dc.SetColor(colorThread)
	dc.SetLineWidth(2.5)
	dc.MoveTo(150, 10)
	dc.QuadraticTo(100, 10, 112, 30)
	dc.QuadraticTo(130, 70, 120, 98)
	dc.Stroke()
	knot(dc, 120, 104)
}

func paintDrawLine(dc *gg.Context) {
	fabric(dc, 10, 20, 140, 84)

	dc.SetColor(colorChalk)
	dc.SetLineWidth(2)
	dc.SetDash(8, 5)
	dc.DrawLine(24, 62, 112, 62)
	dc.Stroke()
	dc.SetDash()

	// chalk pencil
	dc.Push()
	dc.RotateAbout(gg.Radians(-35), 118, 62)
	dc.SetColor(colorWood)
	dc.DrawRectangle(118, 56, 34, 12)
	dc.Fill()
	dc.SetColor(colorChalk)
	dc.NewSubPath()
	dc.MoveTo(118, 56)
	dc.LineTo(108, 62)
	dc.LineTo(118, 68)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()
}

func paintStitch(dc *gg.Context) {
	fabric(dc, 10, 20, 140, 84)

	dc.SetColor(colorChalk)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawLine(24, 62, 136, 62)
	dc.Stroke()
	dc.SetDash()

	runningStitch(dc, 24, 104, 62, 5)
	// thread arcing up to the needle
	dc.SetColor(colorThread)
	dc.SetLineWidth(2.5)
	dc.MoveTo(104, 62)
	dc.QuadraticTo(112, 36, 126, 40)
	dc.Stroke()
	needle(dc, 112, 70, 140, 34)
}

func paintTieOff(dc *gg.Context) {
	fabric(dc, 10, 20, 140, 84)
	runningStitch(dc, 24, 96, 62, 5)

	dc.SetColor(colorThread)
	dc.SetLineWidth(2.5)
	dc.MoveTo(96, 62)
	dc.CubicTo(110, 40, 130, 50, 118, 66)
	dc.Stroke()
	knot(dc, 112, 64)
}

func paintCut(dc *gg.Context) {
	fabric(dc, 10, 20, 120, 84)
	runningStitch(dc, 22, 92, 62, 4)
	knot(dc, 98, 62)

	// loose tail off the fabric
	dc.SetColor(colorThread)
	dc.SetLineWidth(2.5)
	dc.MoveTo(104, 62)
	dc.QuadraticTo(130, 64, 152, 80)
	dc.Stroke()
	scissors(dc, 126, 72, gg.Radians(20))
}

func paintDone(dc *gg.Context) {
	cx, cy := float64(CanvasWidth)/2, float64(CanvasHeight)/2

	dc.SetColor(colorSuccess)
	dc.DrawCircle(cx, cy, 38)
	dc.Fill()
	dc.SetLineCapRound()
	dc.SetColor(colorInk)
	dc.SetLineWidth(7)
	dc.MoveTo(cx-18, cy+1)
	dc.LineTo(cx-5, cy+15)
	dc.LineTo(cx+20, cy-14)
	dc.Stroke()

	dc.SetColor(colorGold)
	for _, p := range [][2]float64{{22, 24}, {138, 28}, {30, 98}, {132, 96}} {
		dc.DrawRegularPolygon(5, p[0], p[1], 7, gg.Radians(-90))
		dc.Fill()
	}
}

func paintPlaceholder(dc *gg.Context) {
	dc.SetColor(colorMuted)
	dc.SetLineWidth(2)
	dc.SetDash(6, 4)
	dc.DrawRoundedRectangle(20, 16, float64(CanvasWidth)-40, float64(CanvasHeight)-32, 10)
	dc.Stroke()
	dc.SetDash()
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored("no image", float64(CanvasWidth)/2, float64(CanvasHeight)/2, 0.5, 0.5)
}
