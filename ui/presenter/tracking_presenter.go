package presenter

import (
	"image"
	"log/slog"

	"github.com/soocke/car-ar-go/domain/placement"
	"github.com/soocke/car-ar-go/domain/tracking"
	"github.com/soocke/car-ar-go/ui/images"
	"github.com/soocke/car-ar-go/ui/model"
	"github.com/soocke/car-ar-go/ui/render"
)

const (
	cropPreviewW = 160
	cropPreviewH = 120
	cropPadding  = 4
)

// ResultSource delivers tracker cycle results.
type ResultSource interface {
	Results() <-chan tracking.CycleResult
}

// LiveFrames supplies the freshest captured frame for the video layer.
type LiveFrames interface {
	CurrentFrame() (tracking.Frame, bool)
}

// ModeReader reports the current tracking mode.
type ModeReader interface {
	Mode() tracking.Mode
}

// PlacementState exposes placed objects for drawing.
type PlacementState interface {
	Objects() []placement.Object
	Placing() bool
}

// Composer turns a scene into the preview image.
type Composer interface {
	Compose(render.Scene) image.Image
}

// TrackingView describes the UI surface updated by the presenter.
type TrackingView interface {
	UpdatePreview(img image.Image)
	UpdateCrop(img image.Image)
	SetDetectionLabel(text string)
}

// TrackingPresenter drains tracker results on the UI thread and redraws the
// composed preview every tick.
type TrackingPresenter struct {
	results  ResultSource
	frames   LiveFrames
	session  ModeReader
	board    PlacementState
	composer Composer
	view     TrackingView
	model    *model.OverlayModel
	logger   *slog.Logger

	width, height int
	floor         float64
	lastLabel     string
}

// TrackingPresenterConfig carries the collaborators of a TrackingPresenter.
type TrackingPresenterConfig struct {
	Results       ResultSource
	Frames        LiveFrames
	Session       ModeReader
	Board         PlacementState
	Composer      Composer
	View          TrackingView
	Model         *model.OverlayModel
	Width, Height int
	FloorFraction float64
	Logger        *slog.Logger
}

func NewTrackingPresenter(cfg TrackingPresenterConfig) *TrackingPresenter {
	if cfg.Model == nil {
		cfg.Model = model.NewOverlayModel()
	}
	return &TrackingPresenter{
		results:  cfg.Results,
		frames:   cfg.Frames,
		session:  cfg.Session,
		board:    cfg.Board,
		composer: cfg.Composer,
		view:     cfg.View,
		model:    cfg.Model,
		logger:   cfg.Logger,
		width:    cfg.Width,
		height:   cfg.Height,
		floor:    cfg.FloorFraction,
	}
}

// ProcessFrame applies pending results and redraws the preview.
func (p *TrackingPresenter) ProcessFrame() {
	if p == nil || p.results == nil || p.session == nil || p.composer == nil || p.view == nil {
		return
	}

	for {
		select {
		case res := <-p.results.Results():
			p.handleResult(res)
		default:
			goto drained
		}
	}

drained:
	if p.session.Mode() == tracking.ModeIdle {
		p.model.Clear()
	}
	p.updateLabel()

	var frame image.Image
	if p.frames != nil {
		if live, ok := p.frames.CurrentFrame(); ok {
			frame = live.Image
		}
	}
	if frame == nil && p.model.Mode().Active() {
		frame = p.model.Frame().Image
	}
	var objects []placement.Object
	placing := false
	if p.board != nil {
		objects = p.board.Objects()
		placing = p.board.Placing()
	}
	if frame == nil && len(objects) == 0 && !placing {
		return
	}
	img := p.composer.Compose(render.Scene{
		Frame:         frame,
		Width:         p.width,
		Height:        p.height,
		Mode:          p.model.Mode(),
		Annotation:    p.model.Annotation(),
		Overlay:       p.model.Position(),
		Objects:       objects,
		Placing:       placing,
		FloorFraction: p.floor,
	})
	if img != nil {
		p.view.UpdatePreview(img)
	}
}

func (p *TrackingPresenter) handleResult(res tracking.CycleResult) {
	if !p.model.Apply(res) {
		return
	}
	if res.Err != nil {
		if p.logger != nil {
			p.logger.Debug("tracking cycle", "sequence", res.Sequence, "error", res.Err)
		}
		return
	}
	if res.Detection == nil || !res.Frame.Ready() {
		return
	}
	crop, _, err := images.CropDetection(res.Frame.Image, res.Detection.Box, cropPadding)
	if err != nil {
		return
	}
	p.view.UpdateCrop(images.ScaleToFit(crop, cropPreviewW, cropPreviewH))
}

func (p *TrackingPresenter) updateLabel() {
	label := "No vehicle"
	switch {
	case p.model.Mode() == tracking.ModeIdle:
		label = ""
	case p.model.Detection() != nil:
		label = p.model.Detection().Caption()
	case p.model.Mode() == tracking.ModeLocked && p.model.Position() != nil:
		label = "Last known position"
	}
	if label != p.lastLabel {
		p.lastLabel = label
		p.view.SetDetectionLabel(label)
	}
}
