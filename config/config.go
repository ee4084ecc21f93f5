package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. CARAR_MIN_CONFIDENCE=0.5.
const EnvPrefix = "CARAR"

const (
	SourceCamera = "camera"
	SourceScreen = "screen"
)

// Config holds runtime configuration for capture, tracking and app behavior.
// Fields may be loaded from a JSON file, overridden by CARAR_* environment
// variables and finally by command-line flags.
type Config struct {
	Debug bool `json:"debug" mapstructure:"debug"`

	// Capture
	Source            string `json:"source" mapstructure:"source"`
	CameraFrontDevice int    `json:"camera_front_device" mapstructure:"camera_front_device"`
	CameraBackDevice  int    `json:"camera_back_device" mapstructure:"camera_back_device"`
	Facing            string `json:"facing" mapstructure:"facing"`
	ReadyTimeoutMs    int    `json:"ready_timeout_ms" mapstructure:"ready_timeout_ms"`

	// Detector
	ModelPath       string `json:"model_path" mapstructure:"model_path"`
	ModelConfigPath string `json:"model_config_path" mapstructure:"model_config_path"`

	// Tracking
	MinConfidence         float64  `json:"min_confidence" mapstructure:"min_confidence"`
	AllowedLabels         []string `json:"allowed_labels" mapstructure:"allowed_labels"`
	SelectionPolicy       string   `json:"selection_policy" mapstructure:"selection_policy"`
	OverlayScale          float64  `json:"overlay_scale" mapstructure:"overlay_scale"`
	RetainLastKnownOnLoss bool     `json:"retain_last_known_on_loss" mapstructure:"retain_last_known_on_loss"`
	ClampToDisplay        bool     `json:"clamp_to_display" mapstructure:"clamp_to_display"`
	ClampMarginX          float64  `json:"clamp_margin_x" mapstructure:"clamp_margin_x"`
	ClampMarginY          float64  `json:"clamp_margin_y" mapstructure:"clamp_margin_y"`
	Smoothing             float64  `json:"smoothing" mapstructure:"smoothing"`
	CornerBrackets        bool     `json:"corner_brackets" mapstructure:"corner_brackets"`
	FrameIntervalMs       int      `json:"frame_interval_ms" mapstructure:"frame_interval_ms"`

	// Display surface
	DisplayWidth  int `json:"display_width" mapstructure:"display_width"`
	DisplayHeight int `json:"display_height" mapstructure:"display_height"`

	// Placement
	PlacementFloor   float64  `json:"placement_floor" mapstructure:"placement_floor"`
	PlacementPalette []string `json:"placement_palette" mapstructure:"placement_palette"`

	// Window
	DarkMode bool `json:"dark_mode" mapstructure:"dark_mode"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                 false,
		Source:                SourceCamera,
		CameraFrontDevice:     1,
		CameraBackDevice:      0,
		Facing:                "back",
		ReadyTimeoutMs:        5000,
		ModelPath:             "models/ssd_mobilenet_v2_coco.pb",
		ModelConfigPath:       "models/ssd_mobilenet_v2_coco.pbtxt",
		MinConfidence:         0.35,
		AllowedLabels:         []string{"car", "truck", "bus", "motorcycle"},
		SelectionPolicy:       "first",
		OverlayScale:          1,
		RetainLastKnownOnLoss: true,
		ClampToDisplay:        false,
		ClampMarginX:          0,
		ClampMarginY:          0,
		Smoothing:             0,
		CornerBrackets:        true,
		FrameIntervalMs:       33,
		DisplayWidth:          960,
		DisplayHeight:         540,
		PlacementFloor:        0.5,
		PlacementPalette:      []string{"#e63946", "#f4a261", "#2a9d8f", "#457b9d", "#8e44ad"},
		DarkMode:              false,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	def := DefaultConfig()
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source != SourceCamera && c.Source != SourceScreen {
		c.Source = SourceCamera
	}
	if c.Facing != "front" && c.Facing != "back" {
		c.Facing = def.Facing
	}
	if c.CameraFrontDevice < 0 {
		c.CameraFrontDevice = def.CameraFrontDevice
	}
	if c.CameraBackDevice < 0 {
		c.CameraBackDevice = def.CameraBackDevice
	}
	if c.ReadyTimeoutMs <= 0 {
		c.ReadyTimeoutMs = def.ReadyTimeoutMs
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		c.MinConfidence = def.MinConfidence
	}
	labels := make([]string, 0, len(c.AllowedLabels))
	for _, l := range c.AllowedLabels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			labels = append(labels, l)
		}
	}
	c.AllowedLabels = labels
	if len(c.AllowedLabels) == 0 {
		c.AllowedLabels = def.AllowedLabels
	}
	switch c.SelectionPolicy {
	case "first", "highest":
	default:
		c.SelectionPolicy = def.SelectionPolicy
	}
	if c.OverlayScale < 1 {
		c.OverlayScale = 1
	}
	if c.OverlayScale > 5 {
		c.OverlayScale = 5
	}
	if c.ClampMarginX < 0 {
		c.ClampMarginX = 0
	}
	if c.ClampMarginY < 0 {
		c.ClampMarginY = 0
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		c.Smoothing = def.Smoothing
	}
	if c.FrameIntervalMs <= 0 {
		c.FrameIntervalMs = def.FrameIntervalMs
	}
	if c.DisplayWidth <= 0 {
		c.DisplayWidth = def.DisplayWidth
	}
	if c.DisplayHeight <= 0 {
		c.DisplayHeight = def.DisplayHeight
	}
	if c.PlacementFloor < 0 || c.PlacementFloor > 1 {
		c.PlacementFloor = def.PlacementFloor
	}
	if len(c.PlacementPalette) == 0 {
		c.PlacementPalette = def.PlacementPalette
	}
	return nil
}

// FrameInterval is the delay between tracker cycles.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// ReadyTimeout bounds the wait for the first frame after (re)acquiring.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMs) * time.Millisecond
}

// Load reads configuration from the given JSON file path and applies CARAR_*
// environment overrides. If the file does not exist it returns defaults (with
// overrides). On parse error it returns defaults with the error.
func Load(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return DefaultConfig(), err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// newViper registers every field with its default so env overrides apply
// even to keys missing from the file.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	raw, err := json.Marshal(DefaultConfig())
	if err != nil {
		return nil, err
	}
	var defaults map[string]interface{}
	if err := json.Unmarshal(raw, &defaults); err != nil {
		return nil, err
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
