package tracking

import "fmt"

// TransformOptions configures the frame to display mapping.
type TransformOptions struct {
	// Scale grows the box about its center. Values <= 1 leave it unchanged.
	Scale   float64
	Clamp   bool
	MarginX float64
	MarginY float64
}

// ToDisplay maps a frame-space box to display space with independent per-axis
// factors. Aspect ratio is not preserved.
func ToDisplay(box Rect, frameW, frameH, displayW, displayH float64) (Rect, error) {
	if frameW <= 0 || frameH <= 0 || displayW <= 0 || displayH <= 0 {
		return Rect{}, fmt.Errorf("%w: frame=%vx%v display=%vx%v", ErrInvalidDimensions, frameW, frameH, displayW, displayH)
	}
	sx := displayW / frameW
	sy := displayH / frameH
	return Rect{X: box.X * sx, Y: box.Y * sy, W: box.W * sx, H: box.H * sy}, nil
}

// Enlarge scales r by k keeping its center fixed.
func Enlarge(r Rect, k float64) Rect {
	if k <= 0 || k == 1 {
		return r
	}
	return Rect{
		X: r.X - r.W*(k-1)/2,
		Y: r.Y - r.H*(k-1)/2,
		W: r.W * k,
		H: r.H * k,
	}
}

// Clamp keeps r inside the display minus margins. A rectangle larger than the
// available area is shrunk to fit before it is shifted.
func Clamp(r Rect, displayW, displayH, marginX, marginY float64) Rect {
	r.X, r.W = clampAxis(r.X, r.W, displayW, marginX)
	r.Y, r.H = clampAxis(r.Y, r.H, displayH, marginY)
	return r
}

func clampAxis(pos, size, limit, margin float64) (float64, float64) {
	avail := limit - 2*margin
	if avail <= 0 {
		return limit / 2, 0
	}
	if size > avail {
		size = avail
	}
	if pos < margin {
		pos = margin
	}
	if pos+size > limit-margin {
		pos = limit - margin - size
	}
	return pos, size
}

// Place runs the full transform: per-axis scale, optional enlargement and
// optional clamping.
func Place(box Rect, frameW, frameH, displayW, displayH float64, opts TransformOptions) (Rect, error) {
	r, err := ToDisplay(box, frameW, frameH, displayW, displayH)
	if err != nil {
		return Rect{}, err
	}
	if opts.Scale > 1 {
		r = Enlarge(r, opts.Scale)
	}
	if opts.Clamp {
		r = Clamp(r, displayW, displayH, opts.MarginX, opts.MarginY)
	}
	return r, nil
}
