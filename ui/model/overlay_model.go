package model

import (
	"github.com/soocke/car-ar-go/domain/tracking"
)

// OverlayModel holds what the last tracker cycle published for drawing. The
// zero value is empty and usable.
// No synchronization needed: updates occur on the UI thread tick.
type OverlayModel struct {
	sequence   uint64
	mode       tracking.Mode
	frame      tracking.Frame
	detection  *tracking.Detection
	position   *tracking.Rect
	annotation *tracking.Annotation
}

func NewOverlayModel() *OverlayModel { return &OverlayModel{} }

// Apply stores res. Results older than the one already held are ignored. A
// result carrying a per-cycle error keeps the previous overlay and only
// refreshes the frame.
func (m *OverlayModel) Apply(res tracking.CycleResult) bool {
	if m == nil || (res.Sequence != 0 && res.Sequence <= m.sequence) {
		return false
	}
	m.sequence = res.Sequence
	m.mode = res.Mode
	if res.Frame.Ready() {
		m.frame = res.Frame
	}
	if res.Err != nil {
		return true
	}
	m.detection = res.Detection
	m.position = res.Position
	m.annotation = res.Annotation
	return true
}

// Clear drops the overlay but keeps the sequence watermark.
func (m *OverlayModel) Clear() {
	if m == nil {
		return
	}
	m.mode = tracking.ModeIdle
	m.detection = nil
	m.position = nil
	m.annotation = nil
}

func (m *OverlayModel) Mode() tracking.Mode {
	if m == nil {
		return tracking.ModeIdle
	}
	return m.mode
}

func (m *OverlayModel) Frame() tracking.Frame {
	if m == nil {
		return tracking.Frame{}
	}
	return m.frame
}

func (m *OverlayModel) Detection() *tracking.Detection {
	if m == nil {
		return nil
	}
	return m.detection
}

func (m *OverlayModel) Position() *tracking.Rect {
	if m == nil {
		return nil
	}
	return m.position
}

func (m *OverlayModel) Annotation() *tracking.Annotation {
	if m == nil {
		return nil
	}
	return m.annotation
}
