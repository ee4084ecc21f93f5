package debug

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/soocke/car-ar-go/domain/capture"
	"github.com/soocke/car-ar-go/domain/tracking"
)

// TrackerStats is implemented by *tracking.Tracker.
type TrackerStats interface {
	Stats() tracking.Stats
}

// CaptureStats is implemented by capture.CaptureService.
type CaptureStats interface {
	Stats() capture.CaptureStats
}

// StartPipelineLogger logs capture and detection throughput every interval.
// Either source may be nil.
func StartPipelineLogger(ctx context.Context, clk clock.Clock, interval time.Duration, logger *slog.Logger, tracker TrackerStats, capt CaptureStats) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	every(ctx, clk, interval, func() {
		attrs := []any{}
		if capt != nil {
			cs := capt.Stats()
			attrs = append(attrs,
				slog.Uint64("captures", cs.Captures),
				slog.Uint64("capture_skipped", cs.Skipped),
				slog.Duration("capture_avg", cs.AvgCapture),
				slog.Duration("frame_age", cs.LatestFrameAge),
			)
		}
		if tracker != nil {
			ts := tracker.Stats()
			attrs = append(attrs,
				slog.Uint64("cycles", ts.Cycles),
				slog.Uint64("detections", ts.Detections),
				slog.Uint64("detect_errors", ts.Errors),
				slog.Uint64("not_ready", ts.NotReady),
				slog.Duration("detect_avg", ts.AvgDetect),
			)
		}
		logger.Info("pipeline", attrs...)
	})
}
