package app

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/benbjohnson/clock"

	"github.com/soocke/car-ar-go/config"
	"github.com/soocke/car-ar-go/domain/capture"
	"github.com/soocke/car-ar-go/domain/cv"
	"github.com/soocke/car-ar-go/domain/placement"
	"github.com/soocke/car-ar-go/domain/tracking"
	"github.com/soocke/car-ar-go/ui/model"
	"github.com/soocke/car-ar-go/ui/presenter"
	"github.com/soocke/car-ar-go/ui/render"
	"github.com/soocke/car-ar-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Clock      clock.Clock

	// Domain services
	Session    *tracking.Session
	CaptureSvc capture.CaptureService
	Detector   *tracking.DetectorLoader
	Tracker    *tracking.Tracker
	Board      *placement.Board
	closers    []io.Closer

	// Models
	Capture *model.CaptureModel
	Stats   *model.SessionModel
	Errors  *model.ErrorModel
	Overlay *model.OverlayModel

	RootView *view.RootView

	// Presenters
	SessionPresenter   *presenter.SessionPresenter
	ModePresenter      *presenter.ModePresenter
	CapturePresenter   *presenter.CapturePresenter
	TrackingPresenter  *presenter.TrackingPresenter
	PlacementPresenter *presenter.PlacementPresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs all components. A detector that fails to load is
// recorded as the fatal error instead of failing the build, so the window can
// still show it. Retry loads it again.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger, Clock: clock.New()}
	c.Capture = &model.CaptureModel{}
	c.Capture.SetFacing(capture.ParseFacing(cfg.Facing))
	c.Stats = model.NewSessionModel()
	c.Errors = model.NewErrorModel()
	c.Overlay = model.NewOverlayModel()

	c.Session = tracking.NewSession(logger)
	c.CaptureSvc = capture.NewCaptureService(logger, newGrabber(cfg))
	c.Detector = c.loadDetector()

	// The render surface is built once, so the transform keeps the size it
	// was created with even if the config is edited later.
	display := tracking.NewFixedDisplay(cfg.DisplayWidth, cfg.DisplayHeight)
	c.Tracker = tracking.NewTracker(c.Session, c.CaptureSvc, c.Detector, display, TrackingOptions(cfg), c.Clock, logger)

	board, err := placement.NewBoard(PlacementOptions(cfg), rand.New(rand.NewSource(c.Clock.Now().UnixNano())), c.Clock, logger)
	if err != nil {
		return nil, fmt.Errorf("placement board: %w", err)
	}
	c.Board = board

	// View; widgets are created later by App.Start on the Tk thread.
	c.RootView = view.NewRootView(cfg, cfgPath, logger)

	c.ModePresenter = presenter.NewModePresenter(c.RootView)
	c.Session.AddListener(c.ModePresenter.OnMode)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Stats, c.Session, c.RootView)
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.Detector, c.Session, c.Errors, c.RootView, cfg.ReadyTimeout(), logger)
	c.TrackingPresenter = presenter.NewTrackingPresenter(presenter.TrackingPresenterConfig{
		Results:       c.Tracker,
		Frames:        c.CaptureSvc,
		Session:       c.Session,
		Board:         c.Board,
		Composer:      render.NewRenderer(render.DefaultStyle()),
		View:          c.RootView,
		Model:         c.Overlay,
		Width:         cfg.DisplayWidth,
		Height:        cfg.DisplayHeight,
		FloorFraction: cfg.PlacementFloor,
		Logger:        logger,
	})
	c.PlacementPresenter = presenter.NewPlacementPresenter(c.Board, c.RootView, cfg.DisplayWidth, cfg.DisplayHeight)
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.ModePresenter, c.CapturePresenter, c.TrackingPresenter, nil)
	return c, nil
}

func newGrabber(cfg *config.Config) capture.Grabber {
	if cfg.Source == config.SourceScreen {
		return capture.NewScreenGrabber()
	}
	return cv.NewCameraGrabber(cfg.CameraFrontDevice, cfg.CameraBackDevice)
}

func (c *AppContainer) loadDetector() *tracking.DetectorLoader {
	loader := tracking.NewDetectorLoader(func() (tracking.Detector, error) {
		det, err := cv.NewDNNDetector(DNNOptions(c.Config))
		if err != nil {
			c.Logger.Error("detector load", "model", c.Config.ModelPath, "error", err)
			return nil, err
		}
		return det, nil
	})
	if err := loader.Load(); err != nil {
		c.Errors.SetFatal(err)
	}
	c.closers = append(c.closers, loader)
	return loader
}

// ApplyConfig pushes edited tracking settings into the running pipeline.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	c.Tracker.SetOptions(TrackingOptions(cfg))
}

// Shutdown stops the tracker, releases the capture source and closes the
// detector.
func (c *AppContainer) Shutdown() {
	c.Tracker.Stop()
	c.CapturePresenter.Shutdown()
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			c.Logger.Warn("close", "error", err)
		}
	}
	c.closers = nil
}
