package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/car-ar-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the tracking settings form. Edits are written back
// into *config.Config, persisted and handed to onApply.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges()
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  func(*config.Config)
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by config json key
}

// NewConfigPanel creates the view bound to cfg. onApply may be nil.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	if c == nil {
		c = config.DefaultConfig()
	}
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(24))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("min_confidence", "Min Confidence (0-1)", fmt.Sprintf("%.2f", c.MinConfidence))
	makeRow("allowed_labels", "Vehicle Labels", strings.Join(c.AllowedLabels, ","))
	makeRow("selection_policy", "Selection (first/highest)", c.SelectionPolicy)
	makeRow("overlay_scale", "Overlay Scale (1-5)", fmt.Sprintf("%.2f", c.OverlayScale))
	makeRow("clamp_to_display", "Clamp To Display (true/false)", fmt.Sprintf("%t", c.ClampToDisplay))
	makeRow("clamp_margin_x", "Clamp Margin X", fmt.Sprintf("%.0f", c.ClampMarginX))
	makeRow("clamp_margin_y", "Clamp Margin Y", fmt.Sprintf("%.0f", c.ClampMarginY))
	makeRow("smoothing", "Smoothing (0-1)", fmt.Sprintf("%.2f", c.Smoothing))
	makeRow("corner_brackets", "Corner Brackets (true/false)", fmt.Sprintf("%t", c.CornerBrackets))
	makeRow("retain_last_known_on_loss", "Keep Last Position (true/false)", fmt.Sprintf("%t", c.RetainLastKnownOnLoss))
	makeRow("frame_interval_ms", "Cycle Interval Ms", fmt.Sprintf("%d", c.FrameIntervalMs))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	fields := map[string]string{}
	for id := range v.widgets {
		if s, ok := v.text(id); ok {
			fields[id] = s
		}
	}
	applyFields(&cfg, fields)
	if err := cfg.Validate(); err != nil {
		if v.logger != nil {
			v.logger.Warn("config rejected", "error", err)
		}
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
}

// applyFields parses form text into cfg. Unparseable values keep the current
// setting.
func applyFields(cfg *config.Config, fields map[string]string) {
	float := func(id string, dst *float64) {
		if f, err := strconv.ParseFloat(fields[id], 64); err == nil {
			*dst = f
		}
	}
	boolean := func(id string, dst *bool) {
		if b, ok := parseBoolLoose(fields[id]); ok {
			*dst = b
		}
	}
	float("min_confidence", &cfg.MinConfidence)
	float("overlay_scale", &cfg.OverlayScale)
	float("clamp_margin_x", &cfg.ClampMarginX)
	float("clamp_margin_y", &cfg.ClampMarginY)
	float("smoothing", &cfg.Smoothing)
	boolean("clamp_to_display", &cfg.ClampToDisplay)
	boolean("corner_brackets", &cfg.CornerBrackets)
	boolean("retain_last_known_on_loss", &cfg.RetainLastKnownOnLoss)
	if i, err := strconv.Atoi(fields["frame_interval_ms"]); err == nil {
		cfg.FrameIntervalMs = i
	}
	if p := strings.ToLower(fields["selection_policy"]); p != "" {
		cfg.SelectionPolicy = p
	}
	if s, ok := fields["allowed_labels"]; ok {
		var labels []string
		for _, l := range strings.Split(s, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
		if len(labels) > 0 {
			cfg.AllowedLabels = labels
		}
	}
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
