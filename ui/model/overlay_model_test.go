package model

import (
	"errors"
	"image"
	"testing"

	"github.com/soocke/car-ar-go/domain/tracking"
)

func frame(seq uint64) tracking.Frame {
	return tracking.Frame{Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Sequence: seq}
}

func TestOverlayModel_ApplyAndOrdering(t *testing.T) {
	m := NewOverlayModel()
	pos := &tracking.Rect{X: 1, Y: 2, W: 3, H: 4}
	ann := &tracking.Annotation{Box: *pos, Caption: "CAR 90%"}
	if !m.Apply(tracking.CycleResult{Sequence: 2, Mode: tracking.ModeScanning, Frame: frame(7), Position: pos, Annotation: ann}) {
		t.Fatalf("first result should apply")
	}
	if m.Position() != pos || m.Annotation() != ann || m.Mode() != tracking.ModeScanning {
		t.Fatalf("result not stored")
	}
	if m.Apply(tracking.CycleResult{Sequence: 1, Mode: tracking.ModeIdle}) {
		t.Fatalf("older result must be ignored")
	}
	if m.Mode() != tracking.ModeScanning {
		t.Fatalf("older result changed mode")
	}
}

func TestOverlayModel_ErrorKeepsOverlay(t *testing.T) {
	m := NewOverlayModel()
	pos := &tracking.Rect{W: 3, H: 4}
	m.Apply(tracking.CycleResult{Sequence: 1, Mode: tracking.ModeLocked, Frame: frame(1), Position: pos})
	m.Apply(tracking.CycleResult{Sequence: 2, Mode: tracking.ModeLocked, Frame: frame(2), Err: errors.New("boom")})
	if m.Position() != pos {
		t.Fatalf("per-cycle error must not clear the overlay")
	}
	if m.Frame().Sequence != 2 {
		t.Fatalf("frame should still refresh on error")
	}
	m.Clear()
	if m.Position() != nil || m.Mode() != tracking.ModeIdle {
		t.Fatalf("clear did not reset overlay")
	}
}

func TestErrorModel_StaysUntilCleared(t *testing.T) {
	m := NewErrorModel()
	m.SetFatal(nil)
	if m.Fatal() != nil {
		t.Fatalf("nil error must be ignored")
	}
	err := errors.New("camera permission denied")
	m.SetFatal(err)
	if !errors.Is(m.Fatal(), err) {
		t.Fatalf("fatal error not stored")
	}
	m.Clear()
	if m.Fatal() != nil {
		t.Fatalf("clear did not reset")
	}
}
