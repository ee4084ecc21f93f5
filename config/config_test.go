package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("validate changed defaults (-want +got):\n%s", diff)
	}
	if cfg.FrameInterval() != 33*time.Millisecond {
		t.Fatalf("unexpected frame interval %v", cfg.FrameInterval())
	}
}

func TestValidate_ClampsOutOfRange(t *testing.T) {
	cfg := &Config{
		Source:          "webcam",
		MinConfidence:   1.5,
		AllowedLabels:   []string{"  Car ", ""},
		SelectionPolicy: "best",
		OverlayScale:    9,
		ClampMarginX:    -3,
		Smoothing:       2,
		PlacementFloor:  -1,
	}
	cfg.Validate()
	if cfg.Source != SourceCamera {
		t.Fatalf("unknown source should fall back to camera, got %q", cfg.Source)
	}
	if cfg.MinConfidence != 0.35 {
		t.Fatalf("min confidence not reset: %v", cfg.MinConfidence)
	}
	if diff := cmp.Diff([]string{"car"}, cfg.AllowedLabels); diff != "" {
		t.Fatalf("labels not normalised (-want +got):\n%s", diff)
	}
	if cfg.SelectionPolicy != "first" {
		t.Fatalf("unknown policy should fall back to first, got %q", cfg.SelectionPolicy)
	}
	if cfg.OverlayScale != 5 {
		t.Fatalf("overlay scale should be capped at 5, got %v", cfg.OverlayScale)
	}
	if cfg.ClampMarginX != 0 || cfg.Smoothing != 0 || cfg.PlacementFloor != 0.5 {
		t.Fatalf("unexpected clamped values %+v", cfg)
	}
	if cfg.FrameIntervalMs != 33 || cfg.DisplayWidth != 960 || cfg.ReadyTimeoutMs != 5000 {
		t.Fatalf("zero values should take defaults %+v", cfg)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"min_confidence": 0.5, "selection_policy": "highest", "allowed_labels": ["car"], "clamp_to_display": true}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinConfidence != 0.5 || cfg.SelectionPolicy != "highest" || !cfg.ClampToDisplay {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"car"}, cfg.AllowedLabels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if !cfg.RetainLastKnownOnLoss || cfg.FrameIntervalMs != 33 {
		t.Fatalf("keys absent from the file should keep defaults: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"min_confidence": 0.5}`), 0o644)
	t.Setenv("CARAR_MIN_CONFIDENCE", "0.7")
	t.Setenv("CARAR_SOURCE", "screen")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinConfidence != 0.7 {
		t.Fatalf("env override not applied, got %v", cfg.MinConfidence)
	}
	if cfg.Source != SourceScreen {
		t.Fatalf("env source not applied, got %q", cfg.Source)
	}
}

func TestLoad_DarkModeFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"dark_mode": true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.DarkMode {
		t.Fatalf("dark_mode from file not applied")
	}
	t.Setenv("CARAR_DARK_MODE", "false")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DarkMode {
		t.Fatalf("env override of dark_mode not applied")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"min_confidence": `), 0o644)
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg == nil || cfg.MinConfidence != 0.35 {
		t.Fatalf("parse error should still return defaults")
	}
}

func TestSave_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.OverlayScale = 2.5
	cfg.Facing = "front"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
