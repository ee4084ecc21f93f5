package images

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/soocke/car-ar-go/domain/tracking"
)

// CropDetection cuts the detection box, grown by pad pixels on every side, out
// of frame. The rectangle is clamped to frame bounds and is at least 1x1.
// Returns the crop and the rectangle relative to frame.
func CropDetection(frame image.Image, box tracking.Rect, pad int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if box.Empty() {
		return nil, image.Rectangle{}, errors.New("empty box")
	}
	if pad < 0 {
		pad = 0
	}
	b := frame.Bounds()
	x0 := int(math.Floor(box.X)) - pad
	y0 := int(math.Floor(box.Y)) - pad
	x1 := int(math.Ceil(box.X+box.W)) + pad
	y1 := int(math.Ceil(box.Y+box.H)) + pad
	roi := image.Rect(x0, y0, x1, y1).Add(b.Min).Intersect(b)
	if roi.Empty() {
		// box lies outside the frame; fall back to the nearest pixel
		px := clampInt(x0, 0, b.Dx()-1) + b.Min.X
		py := clampInt(y0, 0, b.Dy()-1) + b.Min.Y
		roi = image.Rect(px, py, px+1, py+1)
	}
	return imaging.Crop(frame, roi), roi.Sub(b.Min), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
