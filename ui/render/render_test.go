package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/car-ar-go/domain/placement"
	"github.com/soocke/car-ar-go/domain/tracking"
)

func rgb(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompose_InvalidSize(t *testing.T) {
	if NewRenderer(DefaultStyle()).Compose(Scene{Width: 0, Height: 10}) != nil {
		t.Fatalf("expected nil for empty surface")
	}
}

func TestCompose_VideoLayerIsStretched(t *testing.T) {
	out := NewRenderer(DefaultStyle()).Compose(Scene{
		Frame:  solid(4, 2, color.RGBA{R: 200, A: 255}),
		Width:  40,
		Height: 30,
	})
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 30 {
		t.Fatalf("unexpected output size %v", out.Bounds())
	}
	if r, g, _ := rgb(out, 20, 15); r < 190 || g > 10 {
		t.Fatalf("expected the video layer under the center, got r=%d g=%d", r, g)
	}
}

func TestCompose_NoFrameShowsBackground(t *testing.T) {
	out := NewRenderer(DefaultStyle()).Compose(Scene{Width: 10, Height: 10})
	if r, g, b := rgb(out, 5, 5); r|g|b != 0 {
		t.Fatalf("expected black background, got %d,%d,%d", r, g, b)
	}
}

func TestCompose_AnnotationOnlyWhileScanning(t *testing.T) {
	ann := &tracking.Annotation{Box: tracking.Rect{X: 40, Y: 60, W: 100, H: 80}, Caption: "CAR 87%", Brackets: true}
	r := NewRenderer(DefaultStyle())

	scanning := r.Compose(Scene{Width: 200, Height: 200, Mode: tracking.ModeScanning, Annotation: ann})
	if _, g, _ := rgb(scanning, 40, 100); g < 150 {
		t.Fatalf("expected annotation stroke on the left edge, got g=%d", g)
	}
	// caption badge sits above the box
	if _, g, _ := rgb(scanning, 41, 45); g < 150 {
		t.Fatalf("expected caption badge above the box, got g=%d", g)
	}

	locked := r.Compose(Scene{Width: 200, Height: 200, Mode: tracking.ModeLocked, Annotation: ann})
	if r, g, b := rgb(locked, 40, 100); r|g|b != 0 {
		t.Fatalf("annotation must not be drawn while locked, got %d,%d,%d", r, g, b)
	}
}

func TestCompose_CarOverlayFillsPosition(t *testing.T) {
	pos := &tracking.Rect{X: 20, Y: 20, W: 100, H: 60}
	r := NewRenderer(DefaultStyle())
	for _, mode := range []tracking.Mode{tracking.ModeScanning, tracking.ModeLocked} {
		out := r.Compose(Scene{Width: 160, Height: 120, Mode: mode, Overlay: pos})
		cr, cg, cb := rgb(out, 70, 50)
		if cr != 0xff || cg != 0x52 || cb != 0x52 {
			t.Fatalf("%v: expected car body color at overlay center, got %d,%d,%d", mode, cr, cg, cb)
		}
	}
	idle := r.Compose(Scene{Width: 160, Height: 120, Mode: tracking.ModeIdle, Overlay: pos})
	if cr, _, _ := rgb(idle, 70, 50); cr != 0 {
		t.Fatalf("overlay must not be drawn while idle")
	}
}

func TestCompose_PlacedObjects(t *testing.T) {
	c, _ := colorful.Hex("#2a9d8f")
	obj := placement.Object{Position: mgl64.Vec2{50, 80}, Size: 20, Color: c, Rotation: 0.3}
	out := NewRenderer(DefaultStyle()).Compose(Scene{Width: 100, Height: 100, Objects: []placement.Object{obj}})
	r, g, b := rgb(out, 50, 80)
	if r != 0x2a || g != 0x9d || b != 0x8f {
		t.Fatalf("expected object color at its center, got %02x%02x%02x", r, g, b)
	}
}

func TestCompose_FloorGuideWhilePlacing(t *testing.T) {
	out := NewRenderer(DefaultStyle()).Compose(Scene{Width: 100, Height: 100, Placing: true, FloorFraction: 0.5})
	var lit int
	for y := 48; y <= 51; y++ {
		if r, _, _ := rgb(out, 2, y); r > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatalf("expected the floor guide near y=50")
	}
}
