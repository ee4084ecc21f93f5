package model

import (
	"sync/atomic"

	"github.com/soocke/car-ar-go/domain/capture"
)

// CaptureModel tracks whether a capture source is acquired and which camera
// faces the scene. The zero value is released, back-facing and usable.
// Concurrency-safe via atomics because UI callbacks and presenter ticks may race.
type CaptureModel struct {
	acquired atomic.Bool
	facing   atomic.Int32
}

// Acquired reports whether the capture source is open.
func (m *CaptureModel) Acquired() bool {
	if m == nil {
		return false
	}
	return m.acquired.Load()
}

// SetAcquired stores the acquired flag.
func (m *CaptureModel) SetAcquired(b bool) {
	if m == nil {
		return
	}
	m.acquired.Store(b)
}

func (m *CaptureModel) Facing() capture.Facing {
	if m == nil {
		return capture.FacingBack
	}
	return capture.Facing(m.facing.Load())
}

func (m *CaptureModel) SetFacing(f capture.Facing) {
	if m == nil {
		return
	}
	m.facing.Store(int32(f))
}
