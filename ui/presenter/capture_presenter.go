package presenter

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/car-ar-go/domain/capture"
	"github.com/soocke/car-ar-go/domain/tracking"
)

// CaptureModel provides acquired state and camera facing.
type CaptureModel interface {
	Acquired() bool
	SetAcquired(bool)
	Facing() capture.Facing
	SetFacing(capture.Facing)
}

// CaptureSource narrows what the presenter needs from the capture layer.
type CaptureSource interface {
	Acquire(facing capture.Facing) error
	Stop()
	SwitchFacing(ctx context.Context) error
	Facing() capture.Facing
}

// DetectorLoader creates the detector on demand. A load that failed at
// startup is attempted again by Start after Retry.
type DetectorLoader interface {
	Loaded() bool
	Load() error
}

// ModeSession exposes the mode transitions the user can trigger.
type ModeSession interface {
	Mode() tracking.Mode
	Start() bool
	Toggle() (tracking.Mode, bool)
	Exit() bool
}

// FatalErrors stores the error that ended the session.
type FatalErrors interface {
	SetFatal(error)
	Fatal() error
	Clear()
}

// CaptureView updates UI elements affected by acquiring and releasing the source.
// Mode label updates are owned solely by ModePresenter.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
	ShowFatal(msg string)
	HideFatal()
}

// CapturePresenter owns the capture source lifecycle and turns button presses
// into mode transitions. All methods run on the UI thread.
type CapturePresenter struct {
	model        CaptureModel
	source       CaptureSource
	detector     DetectorLoader
	session      ModeSession
	errs         FatalErrors
	view         CaptureView
	readyTimeout time.Duration
	logger       *slog.Logger

	// switchGen advances on every release. A switch outcome carrying an older
	// generation belongs to a session that has since been stopped.
	switching    bool
	switchGen    uint64
	switchCancel context.CancelFunc
	switchCh     chan switchOutcome
}

type switchOutcome struct {
	gen uint64
	err error
}

// NewCapturePresenter returns a presenter. detector may be nil when the
// detector is always available.
func NewCapturePresenter(model CaptureModel, source CaptureSource, detector DetectorLoader, session ModeSession, errs FatalErrors, view CaptureView, readyTimeout time.Duration, logger *slog.Logger) *CapturePresenter {
	if readyTimeout <= 0 {
		readyTimeout = 5 * time.Second
	}
	return &CapturePresenter{
		model:        model,
		source:       source,
		detector:     detector,
		session:      session,
		errs:         errs,
		view:         view,
		readyTimeout: readyTimeout,
		logger:       logger,
		switchCh:     make(chan switchOutcome, 1),
	}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.source != nil && c.session != nil && c.errs != nil && c.view != nil
}

// Start loads the detector and acquires the source if needed, then enters
// Scanning. A stored fatal error blocks Start until Retry.
func (c *CapturePresenter) Start() {
	if !c.ready() {
		return
	}
	if err := c.errs.Fatal(); err != nil {
		c.view.ShowFatal(err.Error())
		return
	}
	if c.session.Mode() != tracking.ModeIdle {
		return
	}
	if c.detector != nil && !c.detector.Loaded() {
		if err := c.detector.Load(); err != nil {
			c.fail(err)
			return
		}
		if c.logger != nil {
			c.logger.Info("detector loaded")
		}
	}
	if !c.model.Acquired() {
		if err := c.source.Acquire(c.model.Facing()); err != nil {
			c.fail(err)
			return
		}
		c.model.SetAcquired(true)
	}
	if c.session.Start() {
		c.view.ConfigEditable(false)
	}
}

// Toggle locks on the current detection or, without one, stops scanning.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	mode, ok := c.session.Toggle()
	if ok && mode == tracking.ModeIdle {
		c.release()
	}
}

// Exit leaves Locked and releases the source.
func (c *CapturePresenter) Exit() {
	if !c.ready() {
		return
	}
	if c.session.Exit() {
		c.release()
	}
}

// Retry clears a fatal error and starts a new session. A detector that failed
// to load is loaded again; if that fails the error is shown again.
func (c *CapturePresenter) Retry() {
	if !c.ready() {
		return
	}
	c.errs.Clear()
	c.view.HideFatal()
	c.Start()
}

// SwitchFacing flips the camera. While the source is released only the
// preference changes; otherwise the switch runs off the UI thread and its
// outcome is applied by Tick.
func (c *CapturePresenter) SwitchFacing() {
	if !c.ready() || c.switching {
		return
	}
	if !c.model.Acquired() {
		c.model.SetFacing(c.model.Facing().Other())
		return
	}
	c.switching = true
	gen := c.switchGen
	ctx, cancel := context.WithTimeout(context.Background(), c.readyTimeout)
	c.switchCancel = cancel
	go func() {
		defer cancel()
		c.switchCh <- switchOutcome{gen: gen, err: c.source.SwitchFacing(ctx)}
	}()
}

// Tick applies the outcome of a pending camera switch.
func (c *CapturePresenter) Tick() {
	if !c.ready() {
		return
	}
	select {
	case out := <-c.switchCh:
		c.switching = false
		c.switchCancel = nil
		if out.gen != c.switchGen {
			c.discardSwitch(out.err)
			return
		}
		if out.err != nil {
			c.fail(out.err)
			return
		}
		c.model.SetFacing(c.source.Facing())
		if c.logger != nil {
			c.logger.Info("camera switched", "facing", c.source.Facing().String())
		}
	default:
	}
}

// discardSwitch drops the outcome of a switch that outlived its session. The
// switch may have reopened the camera after release, so it is closed again
// unless a new session owns it.
func (c *CapturePresenter) discardSwitch(err error) {
	if c.logger != nil {
		c.logger.Debug("camera switch discarded", "error", err)
	}
	if c.model.Acquired() {
		c.model.SetFacing(c.source.Facing())
		return
	}
	c.source.Stop()
}

// Shutdown releases the source regardless of mode.
func (c *CapturePresenter) Shutdown() {
	if !c.ready() {
		return
	}
	c.cancelSwitch()
	c.source.Stop()
	c.model.SetAcquired(false)
}

// fail makes err fatal: the session returns to Idle, the source is released
// and the error is shown until Retry.
func (c *CapturePresenter) fail(err error) {
	if c.logger != nil {
		c.logger.Error("session failed", "error", err)
	}
	c.errs.SetFatal(err)
	c.toIdle()
	c.release()
	c.view.ShowFatal(err.Error())
}

// toIdle walks the session back to Idle through its public transitions.
func (c *CapturePresenter) toIdle() {
	for i := 0; i < 2; i++ {
		switch c.session.Mode() {
		case tracking.ModeScanning:
			c.session.Toggle()
		case tracking.ModeLocked:
			c.session.Exit()
		default:
			return
		}
	}
}

func (c *CapturePresenter) cancelSwitch() {
	c.switchGen++
	if c.switchCancel != nil {
		c.switchCancel()
		c.switchCancel = nil
	}
}

func (c *CapturePresenter) release() {
	c.cancelSwitch()
	c.source.Stop()
	c.model.SetAcquired(false)
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}
