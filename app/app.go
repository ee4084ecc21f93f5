package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/car-ar-go/config"
	"github.com/soocke/car-ar-go/debug"
	"github.com/soocke/car-ar-go/ui/theme"
	"github.com/soocke/car-ar-go/ui/view"
)

const (
	tick = 33 * time.Millisecond

	debugLogInterval = 5 * time.Second
)

// Application owns the Tk window and drives the presenter loop on Tk's event thread.
type Application struct {
	container *AppContainer
	logger    *slog.Logger
	afterID   string
	stopDebug context.CancelFunc
}

func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*Application, error) {
	c, err := BuildContainer(cfg, cfgPath, logger)
	if err != nil {
		return nil, err
	}
	a := &Application{container: c, logger: logger}
	c.Loop.Schedule = a.scheduleUpdate

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	// Room for the preview plus the button column and config rows.
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.DisplayWidth+420, cfg.DisplayHeight+420))
	return a, nil
}

// Start builds the widgets, starts the tracker and blocks in the Tk main loop.
func (a *Application) Start() {
	c := a.container
	theme.Init(c.Config.DarkMode)
	c.RootView.Build(view.Handlers{
		Start:         c.CapturePresenter.Start,
		Toggle:        c.CapturePresenter.Toggle,
		Exit:          c.CapturePresenter.Exit,
		Retry:         c.CapturePresenter.Retry,
		SwitchCamera:  c.CapturePresenter.SwitchFacing,
		TogglePlacing: c.PlacementPresenter.TogglePlacing,
		ClearObjects:  c.PlacementPresenter.Clear,
		Quit:          a.exitHandler,
		ApplyConfig:   c.ApplyConfig,
		Tap:           c.PlacementPresenter.Tap,
		Remove:        c.PlacementPresenter.RemoveAt,
		Rotate:        c.PlacementPresenter.RotateAt,
	})
	if err := c.Errors.Fatal(); err != nil {
		c.RootView.ShowFatal(err.Error())
	}
	c.Tracker.Start()

	if c.Config.Debug {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopDebug = cancel
		debug.StartGoroutineLogger(ctx, c.Clock, debugLogInterval, a.logger)
		debug.StartMemLogger(ctx, c.Clock, debugLogInterval, a.logger)
		debug.StartPipelineLogger(ctx, c.Clock, debugLogInterval, a.logger, c.Tracker, c.CaptureSvc)
	}

	a.scheduleUpdate()
	App.Wait()
}

func (a *Application) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	if a.stopDebug != nil {
		a.stopDebug()
	}
	a.container.Shutdown()
	Destroy(App)
}

// scheduleUpdate queues the next loop tick on Tk's event thread.
func (a *Application) scheduleUpdate() {
	a.afterID = TclAfter(tick, func() { a.container.Loop.Tick() })
}
