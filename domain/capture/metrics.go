package capture

import (
	"image"
	"time"
)

// FrameSnapshot carries the latest captured frame and metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
	Facing     Facing
}

// Ready reports whether the snapshot holds a frame with known dimensions.
func (f FrameSnapshot) Ready() bool {
	if f.Image == nil {
		return false
	}
	b := f.Image.Bounds()
	return b.Dx() > 0 && b.Dy() > 0
}

// Size returns the frame dimensions, zero when not ready.
func (f FrameSnapshot) Size() (int, int) {
	if !f.Ready() {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	Acquires         uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
