package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/car-ar-go/app"
	"github.com/soocke/car-ar-go/config"
)

func main() {
	cfgPath := flag.String("config", "car-ar.json", "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime metrics")
	source := flag.String("source", "", "frame source: camera or screen (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	level := slog.LevelInfo
	if *debugFlag || (cfg != nil && cfg.Debug) {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		// Load falls back to defaults on parse errors.
		logger.Warn("config load", "path", *cfgPath, "error", err)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *source != "" {
		cfg.Source = *source
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApp("Car AR", cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup", "error", err)
		os.Exit(1)
	}
	application.Start()
}
