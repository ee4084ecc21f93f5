package app

import (
	"github.com/soocke/car-ar-go/config"
	"github.com/soocke/car-ar-go/domain/cv"
	"github.com/soocke/car-ar-go/domain/placement"
	"github.com/soocke/car-ar-go/domain/tracking"
)

// TrackingOptions maps the tracking section of cfg onto pipeline options.
func TrackingOptions(cfg *config.Config) tracking.Options {
	opts := tracking.DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.MinConfidence = cfg.MinConfidence
	opts.AllowedLabels = append([]string(nil), cfg.AllowedLabels...)
	opts.Policy = tracking.ParseSelectionPolicy(cfg.SelectionPolicy)
	opts.Transform = tracking.TransformOptions{
		Scale:   cfg.OverlayScale,
		Clamp:   cfg.ClampToDisplay,
		MarginX: cfg.ClampMarginX,
		MarginY: cfg.ClampMarginY,
	}
	opts.RetainLastKnownOnLoss = cfg.RetainLastKnownOnLoss
	opts.Smoothing = cfg.Smoothing
	opts.Brackets = cfg.CornerBrackets
	opts.Interval = cfg.FrameInterval()
	return opts
}

// DNNOptions maps the model paths of cfg onto detector options.
func DNNOptions(cfg *config.Config) cv.DNNOptions {
	opts := cv.DefaultDNNOptions()
	if cfg != nil {
		opts.ModelPath = cfg.ModelPath
		opts.ConfigPath = cfg.ModelConfigPath
	}
	return opts
}

// PlacementOptions maps the placement section of cfg onto board options.
func PlacementOptions(cfg *config.Config) placement.Options {
	if cfg == nil {
		return placement.Options{}
	}
	return placement.Options{
		FloorFraction: cfg.PlacementFloor,
		Palette:       append([]string(nil), cfg.PlacementPalette...),
	}
}
