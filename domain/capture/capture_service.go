package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/car-ar-go/domain/tracking"
)

const (
	captureStatsLogInterval = 5 * time.Second
	readyPollInterval       = 5 * time.Millisecond
	grabRetryDelay          = time.Millisecond
)

// CaptureService owns a single capture handle and exposes the latest frame
// alongside instrumentation data. Use NewCaptureService to construct an
// instance.
type CaptureService interface {
	Acquire(facing Facing) error
	Stop()
	Running() bool
	Facing() Facing
	LatestFrame() FrameSnapshot
	CurrentFrame() (tracking.Frame, bool)
	WaitReady(ctx context.Context) error
	SwitchFacing(ctx context.Context) error
	Stats() CaptureStats
}

type captureService struct {
	grabber Grabber
	logger  *slog.Logger

	mu   sync.Mutex // serialises Acquire and Stop
	stop chan struct{}
	done chan struct{}

	running      atomic.Bool
	facing       atomic.Int32
	latest       atomic.Pointer[FrameSnapshot]
	captures     atomic.Uint64
	skipped      atomic.Uint64
	acquires     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

func newCaptureService(logger *slog.Logger, grabber Grabber) *captureService {
	return &captureService{grabber: grabber, logger: logger}
}

// NewCaptureService constructs a capture service over grabber. Nothing is
// opened until Acquire.
func NewCaptureService(logger *slog.Logger, grabber Grabber) CaptureService {
	return newCaptureService(logger, grabber)
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Facing() Facing { return Facing(s.facing.Load()) }

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

// CurrentFrame adapts the latest snapshot for the tracker.
func (s *captureService) CurrentFrame() (tracking.Frame, bool) {
	snap := s.LatestFrame()
	if !snap.Ready() {
		return tracking.Frame{}, false
	}
	return tracking.Frame{Image: snap.Image, Sequence: snap.Sequence}, true
}

// Acquire opens the device for facing and starts the grab loop. Acquiring the
// facing already running is a no-op; a different facing restarts the handle.
func (s *captureService) Acquire(facing Facing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		if s.Facing() == facing {
			return nil
		}
		s.stopLocked()
	}
	if err := s.grabber.Open(facing); err != nil {
		if s.logger != nil {
			s.logger.Error("capture acquire", "facing", facing.String(), "error", err)
		}
		return fmt.Errorf("%w: %s source: %w", ErrAcquire, facing, err)
	}
	s.acquires.Add(1)
	s.facing.Store(int32(facing))
	s.latest.Store(nil)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.loop(s.stop, s.done)
	if s.logger != nil {
		s.logger.Info("capture acquired", "facing", facing.String())
	}
	return nil
}

// Stop halts the grab loop and releases the handle. Safe to call repeatedly.
func (s *captureService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *captureService) stopLocked() {
	if !s.running.Load() {
		return
	}
	close(s.stop)
	<-s.done
	if err := s.grabber.Close(); err != nil && s.logger != nil {
		s.logger.Warn("capture close", "error", err)
	}
	s.running.Store(false)
	s.latest.Store(nil)
}

// WaitReady blocks until a decoded frame is available or ctx ends.
func (s *captureService) WaitReady(ctx context.Context) error {
	if s.LatestFrame().Ready() {
		return nil
	}
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
		case <-ticker.C:
			if s.LatestFrame().Ready() {
				return nil
			}
			if !s.running.Load() {
				return ErrNotReady
			}
		}
	}
}

// SwitchFacing re-acquires the opposite camera and waits for its first frame.
func (s *captureService) SwitchFacing(ctx context.Context) error {
	next := s.Facing().Other()
	if err := s.Acquire(next); err != nil {
		return err
	}
	return s.WaitReady(ctx)
}

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          s.skipped.Load(),
		Acquires:         s.acquires.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	facing := s.Facing()
	for {
		select {
		case <-stop:
			return
		default:
		}
		start := time.Now()
		img, err := s.grab()
		if err != nil || img == nil || img.Bounds().Empty() {
			if err != nil && s.logger != nil {
				s.logger.Debug("capture grab", "error", err)
			}
			s.skipped.Add(1)
			time.Sleep(grabRetryDelay)
			continue
		}

		elapsed := time.Since(start)
		s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq, Facing: facing})

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		time.Sleep(200 * time.Microsecond)
	}
}

func (s *captureService) grab() (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grab panic: %v", r)
		}
	}()
	return s.grabber.Grab()
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
