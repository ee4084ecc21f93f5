package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/soocke/car-ar-go/domain/tracking"
)

func TestCropDetection_CutsBox(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	frame.Set(30, 40, color.RGBA{R: 255, A: 255})
	crop, rect, err := CropDetection(frame, tracking.Rect{X: 30, Y: 40, W: 20, H: 10}, 0)
	if err != nil || crop == nil {
		t.Fatalf("expected crop, got err=%v", err)
	}
	if rect != image.Rect(30, 40, 50, 50) {
		t.Fatalf("unexpected rect %v", rect)
	}
	if crop.Bounds().Dx() != 20 || crop.Bounds().Dy() != 10 {
		t.Fatalf("expected 20x10, got %v", crop.Bounds())
	}
	if r, _, _, _ := crop.At(0, 0).RGBA(); r>>8 != 255 {
		t.Fatalf("crop origin should carry the frame pixel at the box corner")
	}
}

func TestCropDetection_ClampsNearEdge(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 20, 20))
	_, rect, err := CropDetection(frame, tracking.Rect{X: 15, Y: -5, W: 10, H: 10}, 2)
	if err != nil {
		t.Fatalf("crop error: %v", err)
	}
	if rect != image.Rect(13, 0, 20, 7) {
		t.Fatalf("unexpected clamped rect %v", rect)
	}
}

func TestCropDetection_OutsideFrameFallsBackToPixel(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	crop, rect, err := CropDetection(frame, tracking.Rect{X: 50, Y: 50, W: 5, H: 5}, 0)
	if err != nil || crop == nil {
		t.Fatalf("crop error: %v", err)
	}
	if rect.Dx() != 1 || rect.Dy() != 1 {
		t.Fatalf("expected 1x1 got %v", rect)
	}
}

func TestCropDetection_Errors(t *testing.T) {
	if _, _, err := CropDetection(nil, tracking.Rect{W: 1, H: 1}, 0); err == nil {
		t.Fatalf("expected error for nil frame")
	}
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, _, err := CropDetection(frame, tracking.Rect{}, 0); err == nil {
		t.Fatalf("expected error for empty box")
	}
}

func TestScaleToFit_KeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := ScaleToFit(src, 100, 100)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("expected 100x50, got %v", out.Bounds())
	}
	if ScaleToFit(src, 800, 800) != image.Image(src) {
		t.Fatalf("image that fits should be returned unchanged")
	}
}

func TestStretch_PerAxis(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	out := Stretch(src, 128, 24)
	if out.Bounds().Dx() != 128 || out.Bounds().Dy() != 24 {
		t.Fatalf("expected 128x24, got %v", out.Bounds())
	}
	if Stretch(src, 0, 10) != nil {
		t.Fatalf("invalid size should yield nil")
	}
}

func TestEncodePNG(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
	if len(EncodePNG(image.NewRGBA(image.Rect(0, 0, 2, 2)))) == 0 {
		t.Fatalf("expected png bytes")
	}
}
