// Package debug holds the periodic loggers started when config.Debug is true.
// They exist to correlate goroutine, heap and native memory growth with the
// capture and tracking pipelines.
package debug

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/benbjohnson/clock"
)

// every runs fn on each tick of a clk ticker until ctx ends. The ticker is
// created before every returns.
func every(ctx context.Context, clk clock.Clock, interval time.Duration, fn func()) {
	if clk == nil {
		clk = clock.New()
	}
	t := clk.Ticker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				fn()
			}
		}
	}()
}

// StartGoroutineLogger logs goroutine count and stack memory every interval.
func StartGoroutineLogger(ctx context.Context, clk clock.Clock, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	every(ctx, clk, interval, func() {
		metrics.Read(samples)
		goroutines := uint64(0)
		if samples[0].Value.Kind() == metrics.KindUint64 {
			goroutines = samples[0].Value.Uint64()
		}
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		logger.Info("goroutine-stacks",
			slog.Uint64("goroutines", goroutines),
			slog.Uint64("stack_inuse", ms.StackInuse),
			slog.Uint64("stack_sys", ms.StackSys),
			slog.Uint64("heap_alloc", ms.HeapAlloc),
		)
	})
}
