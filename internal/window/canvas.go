package window

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/netgraph/internal/render"
)

// Debug font cell size.
const (
	glyphW = 6
	glyphH = 16
)

// canvas draws onto an ebiten image. Text uses the debug font, which
// ignores the requested colour.
type canvas struct {
	img *ebiten.Image
}

func (c canvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c canvas) Clear(col color.Color) { c.img.Fill(col) }

func (c canvas) Line(a, b r2.Vec, width float64, col color.Color) {
	vector.StrokeLine(c.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), col, true)
}

func (c canvas) FillCircle(p r2.Vec, radius float64, col color.Color) {
	vector.DrawFilledCircle(c.img, float32(p.X), float32(p.Y), float32(radius), col, true)
}

func (c canvas) StrokeCircle(p r2.Vec, radius, width float64, col color.Color) {
	vector.StrokeCircle(c.img, float32(p.X), float32(p.Y), float32(radius), float32(width), col, true)
}

func (c canvas) FillRect(b render.Box, col color.Color) {
	vector.DrawFilledRect(c.img, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), col, true)
}

func (c canvas) Text(s string, p r2.Vec, _ color.Color) {
	ebitenutil.DebugPrintAt(c.img, render.ASCII(s), int(p.X), int(p.Y))
}

func (c canvas) MeasureText(s string) (float64, float64) {
	return float64(glyphW * utf8.RuneCountInString(render.ASCII(s))), glyphH
}
