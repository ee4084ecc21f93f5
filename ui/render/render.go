// Package render composes the preview image: the video layer stretched to the
// display, the scanning annotation, the car overlay and placed objects.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/soocke/car-ar-go/domain/placement"
	"github.com/soocke/car-ar-go/domain/tracking"
	"github.com/soocke/car-ar-go/ui/images"
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Style holds the colors and sizes of the drawn layers.
type Style struct {
	Background      color.Color
	Annotation      color.Color
	CaptionText     color.Color
	Overlay         color.Color
	FloorLine       color.Color
	LineWidth       float64
	BracketFraction float64
	FontSize        float64
}

// DefaultStyle returns the stock colors.
func DefaultStyle() Style {
	return Style{
		Background:      color.Black,
		Annotation:      color.RGBA{R: 0x00, G: 0xe6, B: 0x76, A: 0xff},
		CaptionText:     color.Black,
		Overlay:         color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff},
		FloorLine:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80},
		LineWidth:       3,
		BracketFraction: 0.2,
		FontSize:        14,
	}
}

// Scene is everything drawn for one preview update.
type Scene struct {
	Frame      image.Image
	Width      int
	Height     int
	Mode       tracking.Mode
	Annotation *tracking.Annotation
	Overlay    *tracking.Rect
	Objects    []placement.Object
	// FloorFraction is drawn as a guide line while Placing.
	Placing       bool
	FloorFraction float64
}

// Renderer draws scenes. It is not safe for concurrent use.
type Renderer struct {
	style Style
	face  *truetype.Font
}

func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style, face: font}
}

// Compose draws the layers bottom to top and returns the result.
func (r *Renderer) Compose(s Scene) image.Image {
	if s.Width < 1 || s.Height < 1 {
		return nil
	}
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(r.style.Background)
	dc.Clear()
	if frame := images.Stretch(s.Frame, s.Width, s.Height); frame != nil {
		dc.DrawImage(frame, 0, 0)
	}
	if s.Overlay != nil && s.Mode.Active() {
		r.drawCar(dc, *s.Overlay)
	}
	if s.Annotation != nil && s.Mode == tracking.ModeScanning {
		r.drawAnnotation(dc, *s.Annotation)
	}
	if s.Placing {
		y := s.FloorFraction * float64(s.Height)
		dc.SetColor(r.style.FloorLine)
		dc.SetLineWidth(1)
		dc.SetDash(6, 4)
		dc.DrawLine(0, y, float64(s.Width), y)
		dc.Stroke()
		dc.SetDash()
	}
	for _, o := range s.Objects {
		drawObject(dc, o)
	}
	return dc.Image()
}

func (r *Renderer) drawAnnotation(dc *gg.Context, a tracking.Annotation) {
	b := a.Box
	dc.SetColor(r.style.Annotation)
	dc.SetLineWidth(r.style.LineWidth)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()
	if a.Brackets {
		r.drawBrackets(dc, b)
	}
	if a.Caption == "" {
		return
	}
	dc.SetFontFace(truetype.NewFace(r.face, &truetype.Options{Size: r.style.FontSize}))
	tw, th := dc.MeasureString(a.Caption)
	pad := 3.0
	y := b.Y - th - 2*pad
	if y < 0 {
		y = b.Y
	}
	dc.SetColor(r.style.Annotation)
	dc.DrawRectangle(b.X, y, tw+2*pad, th+2*pad)
	dc.Fill()
	dc.SetColor(r.style.CaptionText)
	dc.DrawStringAnchored(a.Caption, b.X+pad, y+pad+th/2, 0, 0.5)
}

// drawBrackets adds thicker L-shaped marks on each corner.
func (r *Renderer) drawBrackets(dc *gg.Context, b tracking.Rect) {
	l := math.Min(b.W, b.H) * r.style.BracketFraction
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.W, b.Y+b.H
	dc.SetLineWidth(r.style.LineWidth * 2)
	dc.SetLineCapSquare()
	corners := [][6]float64{
		{x0, y0 + l, x0, y0, x0 + l, y0},
		{x1 - l, y0, x1, y0, x1, y0 + l},
		{x1, y1 - l, x1, y1, x1 - l, y1},
		{x0 + l, y1, x0, y1, x0, y1 - l},
	}
	for _, c := range corners {
		dc.MoveTo(c[0], c[1])
		dc.LineTo(c[2], c[3])
		dc.LineTo(c[4], c[5])
		dc.Stroke()
	}
	dc.SetLineCapRound()
}

// drawCar draws a flat car silhouette filling rect.
func (r *Renderer) drawCar(dc *gg.Context, rect tracking.Rect) {
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	if w <= 0 || h <= 0 {
		return
	}
	body := r.style.Overlay
	dc.SetColor(body)
	radius := math.Min(w, h) * 0.08
	dc.DrawRoundedRectangle(x+0.04*w, y+0.42*h, 0.92*w, 0.38*h, radius)
	dc.Fill()
	dc.DrawRoundedRectangle(x+0.22*w, y+0.18*h, 0.56*w, 0.3*h, radius)
	dc.Fill()

	cabin := darken(body, 0.35)
	dc.SetColor(cabin)
	dc.DrawRectangle(x+0.27*w, y+0.23*h, 0.2*w, 0.2*h)
	dc.DrawRectangle(x+0.53*w, y+0.23*h, 0.2*w, 0.2*h)
	dc.Fill()

	wheelR := math.Min(0.11*w, 0.14*h)
	dc.SetColor(color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff})
	dc.DrawCircle(x+0.24*w, y+0.8*h, wheelR)
	dc.DrawCircle(x+0.76*w, y+0.8*h, wheelR)
	dc.Fill()
}

func drawObject(dc *gg.Context, o placement.Object) {
	corners := o.Corners()
	dc.MoveTo(corners[0].X(), corners[0].Y())
	for _, c := range corners[1:] {
		dc.LineTo(c.X(), c.Y())
	}
	dc.ClosePath()
	dc.SetColor(o.Color)
	dc.FillPreserve()
	dc.SetColor(darken(o.Color, 0.4))
	dc.SetLineWidth(2)
	dc.Stroke()
}

func darken(c color.Color, amount float64) color.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	h, s, l := cf.Hsl()
	return colorful.Hsl(h, s, math.Max(0, l-amount*l))
}
