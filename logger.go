package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger on stdout at level. Debug level also
// records source locations.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level.Level() <= slog.LevelDebug,
	})
	return slog.New(h)
}
