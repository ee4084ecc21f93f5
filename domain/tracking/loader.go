package tracking

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
)

// ErrDetectorNotLoaded is returned by DetectorLoader.Detect before a
// successful Load.
var ErrDetectorNotLoaded = errors.New("detector not loaded")

// DetectorLoader holds a detector that is created on demand and may be
// reloaded after a failed attempt.
type DetectorLoader struct {
	load func() (Detector, error)

	mu  sync.RWMutex
	det Detector
}

// NewDetectorLoader returns an empty loader. Nothing is loaded until Load.
func NewDetectorLoader(load func() (Detector, error)) *DetectorLoader {
	return &DetectorLoader{load: load}
}

// Load creates the detector unless one is already held.
func (l *DetectorLoader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.det != nil {
		return nil
	}
	det, err := l.load()
	if err != nil {
		return err
	}
	if det == nil {
		return ErrDetectorNotLoaded
	}
	l.det = det
	return nil
}

// Loaded reports whether a detector is held.
func (l *DetectorLoader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.det != nil
}

func (l *DetectorLoader) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	l.mu.RLock()
	det := l.det
	l.mu.RUnlock()
	if det == nil {
		return nil, ErrDetectorNotLoaded
	}
	return det.Detect(ctx, img)
}

// Close releases the held detector if it owns resources.
func (l *DetectorLoader) Close() error {
	l.mu.Lock()
	det := l.det
	l.det = nil
	l.mu.Unlock()
	if c, ok := det.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
