package capture

import (
	"errors"
	"image"
	"strings"
)

var (
	// ErrAcquire reports that the capture device could not be opened.
	ErrAcquire = errors.New("capture acquire failed")
	// ErrNotReady reports that no decoded frame is available yet.
	ErrNotReady = errors.New("capture not ready")
)

// Facing selects which camera a source opens.
type Facing int

const (
	FacingBack Facing = iota
	FacingFront
)

func (f Facing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

// Other returns the opposite facing.
func (f Facing) Other() Facing {
	if f == FacingFront {
		return FacingBack
	}
	return FacingFront
}

// ParseFacing maps "front" / "user" to FacingFront and everything else to FacingBack.
func ParseFacing(s string) Facing {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "user":
		return FacingFront
	}
	return FacingBack
}

// Grabber is a capture backend. Grab is only called between a successful Open
// and Close, always from the same goroutine.
type Grabber interface {
	Open(facing Facing) error
	Grab() (*image.RGBA, error)
	Close() error
}

