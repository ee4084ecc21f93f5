package view

import (
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/car-ar-go/config"
	"github.com/soocke/car-ar-go/domain/tracking"
	"github.com/soocke/car-ar-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the callbacks the root view invokes on user actions.
type Handlers struct {
	Start         func()
	Toggle        func()
	Exit          func()
	Retry         func()
	SwitchCamera  func()
	TogglePlacing func()
	ClearObjects  func()
	Quit          func()
	ApplyConfig   func(*config.Config)

	// Pointer gestures on the preview, in preview pixels.
	Tap    func(x, y int)
	Remove func(x, y int)
	Rotate func(x, y, steps int)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It implements every view contract the presenters depend on.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Preview     ARPreview

	// Widgets
	StateLabel     *TLabelWidget
	DetectionLabel *LabelWidget
	ObjectsLabel   *LabelWidget
	FatalLabel     *LabelWidget
	startBtn       *TButtonWidget
	toggleBtn      *TButtonWidget
	exitBtn        *TButtonWidget
	retryBtn       *TButtonWidget
	switchBtn      *TButtonWidget
	placeBtn       *TButtonWidget
	clearBtn       *TButtonWidget
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. The preview is sized to the configured display
// surface so pointer coordinates map one to one onto it.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: session stats, state label, detection label
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.Session = NewSessionStats(statsFrame, 0, 0)
	rv.StateLabel = TLabel(Txt("Mode: Idle"), Style(theme.StyleIdleLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.DetectionLabel = Label(Txt(""), Width(22), Anchor("w"))
	Grid(rv.DetectionLabel, Row(0), Column(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Button column
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	button := func(row int, text, style string, fn func()) *TButtonWidget {
		if fn == nil {
			fn = func() {}
		}
		b := TButton(Txt(text), Style(style), Command(fn))
		Grid(b, In(btnFrame), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		return b
	}
	rv.startBtn = button(0, "Start AR", theme.StylePrimaryButton, h.Start)
	rv.toggleBtn = button(1, "Lock / Stop", theme.StylePrimaryButton, h.Toggle)
	rv.exitBtn = button(2, "Exit AR", theme.StyleDangerButton, h.Exit)
	rv.switchBtn = button(3, "Switch Camera", theme.StylePrimaryButton, h.SwitchCamera)
	rv.placeBtn = button(4, "Place Objects", theme.StylePrimaryButton, h.TogglePlacing)
	rv.clearBtn = button(5, "Clear Objects", theme.StylePrimaryButton, h.ClearObjects)
	button(6, "Quit", theme.StyleDangerButton, h.Quit)
	rv.ObjectsLabel = Label(Txt("Objects: 0"), Anchor("w"))
	Grid(rv.ObjectsLabel, In(btnFrame), Row(7), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Fatal error banner, empty until ShowFatal.
	rv.FatalLabel = Label(Txt(""), Foreground(theme.Current().Danger), Anchor("w"))
	Grid(rv.FatalLabel, Row(1), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	rv.retryBtn = TButton(Txt("Retry"), Style(theme.StyleDangerButton), State("disabled"), Command(func() {
		if h.Retry != nil {
			h.Retry()
		}
	}))
	Grid(rv.retryBtn, Row(1), Column(3), Sticky("w"), Padx("0.4m"), Pady("0.2m"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ApplyConfig)
	endRow := rv.ConfigPanel.Build(2)

	w, hgt := 0, 0
	if rv.cfg != nil {
		w, hgt = rv.cfg.DisplayWidth, rv.cfg.DisplayHeight
	}
	rv.Preview = NewARPreview(endRow, w, hgt, PointerHandlers{Tap: h.Tap, Remove: h.Remove, Rotate: h.Rotate})
	rv.SetControls(tracking.ModeIdle)
}

// SetStateLabel updates the mode label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetControls enables the buttons that trigger a transition from mode.
func (rv *RootView) SetControls(mode tracking.Mode) {
	if rv == nil || rv.startBtn == nil {
		return
	}
	rv.StateLabel.Configure(Style(theme.ModeStyle(mode)))
	rv.startBtn.Configure(State(stateFor(mode == tracking.ModeIdle)))
	rv.toggleBtn.Configure(State(stateFor(mode == tracking.ModeScanning)))
	rv.exitBtn.Configure(State(stateFor(mode == tracking.ModeLocked)))
	rv.switchBtn.Configure(State(stateFor(true)))
}

func stateFor(enabled bool) string {
	if enabled {
		return "normal"
	}
	return "disabled"
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// ConfigEditable redirects to SetConfigEditable to satisfy CaptureView interface.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }

// PreviewReset clears the AR preview.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
	rv.SetDetectionLabel("")
}

// ShowFatal displays msg and enables the retry button.
func (rv *RootView) ShowFatal(msg string) {
	if rv == nil || rv.FatalLabel == nil {
		return
	}
	rv.FatalLabel.Configure(Txt("Error: " + msg))
	rv.retryBtn.Configure(State("normal"))
}

// HideFatal empties the error banner.
func (rv *RootView) HideFatal() {
	if rv == nil || rv.FatalLabel == nil {
		return
	}
	rv.FatalLabel.Configure(Txt(""))
	rv.retryBtn.Configure(State("disabled"))
}

// UpdatePreview proxies to the AR preview.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

// UpdateCrop proxies to the AR preview.
func (rv *RootView) UpdateCrop(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdateCrop(img)
	}
}

// SetDetectionLabel shows the caption of the current detection.
func (rv *RootView) SetDetectionLabel(text string) {
	if rv != nil && rv.DetectionLabel != nil {
		rv.DetectionLabel.Configure(Txt(text))
	}
}

// SetSession updates both session and total AR durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// SetPlacing reflects the placement sub-mode on its button.
func (rv *RootView) SetPlacing(on bool) {
	if rv == nil || rv.placeBtn == nil {
		return
	}
	text := "Place Objects"
	if on {
		text = "Done Placing"
	}
	rv.placeBtn.Configure(Txt(text))
}

// SetObjectCount shows how many objects are placed.
func (rv *RootView) SetObjectCount(n int) {
	if rv == nil || rv.ObjectsLabel == nil {
		return
	}
	rv.ObjectsLabel.Configure(Txt("Objects: " + strconv.Itoa(n)))
	if rv.clearBtn != nil {
		rv.clearBtn.Configure(State(stateFor(n > 0)))
	}
}
