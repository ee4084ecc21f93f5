package capture

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeGrabber struct {
	mu      sync.Mutex
	openErr error
	grabErr error
	opened  []Facing
	closes  atomic.Int32
	grabs   atomic.Int32
	size    image.Rectangle
}

func newFakeGrabber() *fakeGrabber {
	return &fakeGrabber{size: image.Rect(0, 0, 64, 48)}
}

func (g *fakeGrabber) Open(f Facing) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.openErr != nil {
		return g.openErr
	}
	g.opened = append(g.opened, f)
	return nil
}

func (g *fakeGrabber) Grab() (*image.RGBA, error) {
	g.grabs.Add(1)
	g.mu.Lock()
	err := g.grabErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(g.size), nil
}

func (g *fakeGrabber) Close() error {
	g.closes.Add(1)
	return nil
}

func (g *fakeGrabber) openedFacings() []Facing {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Facing(nil), g.opened...)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCaptureService_AcquireFailureWrapsErrAcquire(t *testing.T) {
	g := newFakeGrabber()
	g.openErr = errors.New("permission denied")
	svc := NewCaptureService(discardLogger, g)
	err := svc.Acquire(FacingBack)
	if !errors.Is(err, ErrAcquire) {
		t.Fatalf("expected ErrAcquire, got %v", err)
	}
	if svc.Running() {
		t.Fatalf("service must not run after a failed acquire")
	}
	if _, ok := svc.CurrentFrame(); ok {
		t.Fatalf("no frame expected after failed acquire")
	}
}

func TestCaptureService_AcquireProducesFrames(t *testing.T) {
	g := newFakeGrabber()
	svc := NewCaptureService(discardLogger, g)
	defer svc.Stop()
	if err := svc.Acquire(FacingBack); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := svc.WaitReady(waitCtx(t)); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	frame, ok := svc.CurrentFrame()
	if !ok || !frame.Ready() {
		t.Fatalf("expected a ready frame")
	}
	w, h := svc.LatestFrame().Size()
	if w != 64 || h != 48 {
		t.Fatalf("unexpected frame size %dx%d", w, h)
	}
	if st := svc.Stats(); st.Captures == 0 || st.Acquires != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestCaptureService_AcquireSameFacingIsNoOp(t *testing.T) {
	g := newFakeGrabber()
	svc := NewCaptureService(discardLogger, g)
	defer svc.Stop()
	svc.Acquire(FacingBack)
	svc.Acquire(FacingBack)
	if n := len(g.openedFacings()); n != 1 {
		t.Fatalf("expected one open, got %d", n)
	}
}

func TestCaptureService_StopIsIdempotent(t *testing.T) {
	g := newFakeGrabber()
	svc := NewCaptureService(discardLogger, g)
	svc.Acquire(FacingBack)
	svc.WaitReady(waitCtx(t))
	svc.Stop()
	svc.Stop()
	if g.closes.Load() != 1 {
		t.Fatalf("expected exactly one close, got %d", g.closes.Load())
	}
	if svc.Running() {
		t.Fatalf("service still running after stop")
	}
	if svc.LatestFrame().Ready() {
		t.Fatalf("latest frame must be cleared on stop")
	}
	grabs := g.grabs.Load()
	time.Sleep(10 * time.Millisecond)
	if g.grabs.Load() != grabs {
		t.Fatalf("grab loop kept running after stop")
	}
}

func TestCaptureService_SwitchFacing(t *testing.T) {
	g := newFakeGrabber()
	svc := NewCaptureService(discardLogger, g)
	defer svc.Stop()
	if err := svc.Acquire(FacingBack); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := svc.SwitchFacing(waitCtx(t)); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if svc.Facing() != FacingFront {
		t.Fatalf("expected front facing, got %v", svc.Facing())
	}
	if got := g.openedFacings(); len(got) != 2 || got[1] != FacingFront {
		t.Fatalf("unexpected open sequence %v", got)
	}
	if g.closes.Load() != 1 {
		t.Fatalf("previous handle must be closed before reopening")
	}
	if svc.LatestFrame().Facing != FacingFront {
		t.Fatalf("latest frame should come from the new facing")
	}
}

func TestCaptureService_WaitReadyTimesOut(t *testing.T) {
	g := newFakeGrabber()
	g.grabErr = errors.New("no signal")
	svc := NewCaptureService(discardLogger, g)
	defer svc.Stop()
	svc.Acquire(FacingBack)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := svc.WaitReady(ctx)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if svc.Stats().Skipped == 0 {
		t.Fatalf("failed grabs should be counted as skipped")
	}
}

func TestParseFacing(t *testing.T) {
	if ParseFacing("Front") != FacingFront || ParseFacing("user") != FacingFront {
		t.Fatalf("front aliases not parsed")
	}
	if ParseFacing("") != FacingBack || ParseFacing("environment") != FacingBack {
		t.Fatalf("expected back as default")
	}
	if FacingBack.Other() != FacingFront {
		t.Fatalf("other of back should be front")
	}
}
