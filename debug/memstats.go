package debug

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/benbjohnson/clock"
)

// StartMemLogger logs Go heap stats next to the process resident set size.
// Failures to query RSS are logged once and then suppressed.
func StartMemLogger(ctx context.Context, clk clock.Clock, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var rssErrLogged bool
	every(ctx, clk, interval, func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		rss, err := residentSetSize()
		if err != nil && !rssErrLogged {
			logger.Warn("memlog: rss query failed", slog.String("err", err.Error()))
			rssErrLogged = true
		}
		logger.Info("memstats",
			slog.Int("goroutines", runtime.NumGoroutine()),
			slog.Uint64("heap_alloc", ms.HeapAlloc),
			slog.Uint64("heap_inuse", ms.HeapInuse),
			slog.Uint64("heap_idle", ms.HeapIdle),
			slog.Uint64("heap_sys", ms.HeapSys),
			slog.Uint64("next_gc", ms.NextGC),
			slog.Uint64("rss", rss),
			slog.Uint64("num_gc", uint64(ms.NumGC)),
		)
	})
}
