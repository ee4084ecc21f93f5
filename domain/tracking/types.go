package tracking

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"
)

// ErrInvalidDimensions is returned when a frame or display size is not positive.
var ErrInvalidDimensions = errors.New("tracking: invalid dimensions")

// Mode enumerates the phases of the tracking session.
type Mode int

const (
	ModeIdle Mode = iota
	ModeScanning
	ModeLocked
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeScanning:
		return "scanning"
	case ModeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Active reports whether the detection loop runs in this mode.
func (m Mode) Active() bool { return m == ModeScanning || m == ModeLocked }

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// RectFromImage converts an integer image rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Image rounds the rectangle to integer pixel coordinates.
func (r Rect) Image() image.Rectangle {
	x0, y0 := int(r.X+0.5), int(r.Y+0.5)
	return image.Rect(x0, y0, x0+int(r.W+0.5), y0+int(r.H+0.5))
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Detection is one qualifying detector output for a single frame. Values are
// never mutated after construction.
type Detection struct {
	Label      string
	Confidence float64
	Box        Rect // frame pixel space
}

// NewDetection validates raw detector output and narrows it to a Detection.
// Labels are lowercased and trimmed so allow-list checks are exact.
func NewDetection(label string, confidence float64, box Rect) (Detection, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return Detection{}, errors.New("tracking: empty label")
	}
	if confidence < 0 || confidence > 1 || confidence != confidence {
		return Detection{}, fmt.Errorf("tracking: confidence %v out of range", confidence)
	}
	if box.Empty() {
		return Detection{}, fmt.Errorf("tracking: empty box %+v", box)
	}
	return Detection{Label: label, Confidence: confidence, Box: box}, nil
}

// Caption renders the annotation text, e.g. "CAR 87%".
func (d Detection) Caption() string {
	return fmt.Sprintf("%s %d%%", strings.ToUpper(d.Label), int(d.Confidence*100+0.5))
}

// Annotation is the 2D drawing produced in scanning mode.
type Annotation struct {
	Box      Rect // display space
	Caption  string
	Brackets bool
}

// Frame is the minimal view of a captured frame the tracker needs.
type Frame struct {
	Image    image.Image
	Sequence uint64
}

// Ready reports whether the frame is decoded with non-zero dimensions.
func (f Frame) Ready() bool {
	if f.Image == nil {
		return false
	}
	b := f.Image.Bounds()
	return b.Dx() > 0 && b.Dy() > 0
}

// FrameSource supplies the most recent frame.
type FrameSource interface {
	CurrentFrame() (Frame, bool)
}

// Detector runs inference on a frame. Calls may block for longer than one cycle.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context, img image.Image) ([]Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	return f(ctx, img)
}

// Display reports the current size of the render surface.
type Display interface {
	DisplaySize() (w, h float64)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func() (float64, float64)

func (f DisplayFunc) DisplaySize() (float64, float64) { return f() }

// FixedDisplay is a render surface whose size never changes after creation.
type FixedDisplay struct{ W, H float64 }

// NewFixedDisplay snapshots w and h.
func NewFixedDisplay(w, h int) FixedDisplay {
	return FixedDisplay{W: float64(w), H: float64(h)}
}

func (d FixedDisplay) DisplaySize() (float64, float64) { return d.W, d.H }

// CycleResult is published once per completed cycle.
type CycleResult struct {
	Sequence   uint64
	Mode       Mode
	Frame      Frame
	Detection  *Detection
	Position   *Rect
	Annotation *Annotation
	Duration   time.Duration
	Err        error
}

// Stats summarises tracker behaviour for instrumentation.
type Stats struct {
	Cycles      uint64
	Detections  uint64
	Errors      uint64
	NotReady    uint64
	AvgDetect   time.Duration
	LastCycleAt time.Time
}
