package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the primary monitor, or Region when it is set. It has
// no notion of facing; both facings capture the same screen.
type ScreenGrabber struct {
	Region *image.Rectangle
}

// NewScreenGrabber returns a grabber for the full screen.
func NewScreenGrabber() *ScreenGrabber { return &ScreenGrabber{} }

func (g *ScreenGrabber) Open(Facing) error {
	rect, err := screenshot.ScreenRect()
	if err != nil {
		return fmt.Errorf("screen rect: %w", err)
	}
	if rect.Empty() {
		return fmt.Errorf("screen rect is empty")
	}
	if g.Region != nil && !g.Region.In(rect) {
		return fmt.Errorf("region %v outside screen %v", *g.Region, rect)
	}
	return nil
}

func (g *ScreenGrabber) Grab() (*image.RGBA, error) {
	if g.Region != nil && !g.Region.Empty() {
		return screenshot.CaptureRect(*g.Region)
	}
	return screenshot.CaptureScreen()
}

func (g *ScreenGrabber) Close() error { return nil }
