// Package config loads the poster editor's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"poster-editor/internal/crop"
	"poster-editor/internal/editor"
	"poster-editor/internal/viewtransform"
	"poster-editor/pkg/colorutil"
	"poster-editor/pkg/units"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all poster editor configuration.
type Config struct {
	Paper    units.Paper  `yaml:"paper"`
	Editor   EditorConfig `yaml:"editor"`
	Crop     CropConfig   `yaml:"crop"`
	Export   ExportConfig `yaml:"export"`
	LogLevel string       `yaml:"log_level"` // debug | info | warn | error
}

// EditorConfig controls the poster canvas view and history.
type EditorConfig struct {
	Padding         float64 `yaml:"padding"`
	MinScale        float64 `yaml:"min_scale"`
	MaxScale        float64 `yaml:"max_scale"`
	ZoomStep        float64 `yaml:"zoom_step"`
	BackgroundColor string  `yaml:"background_color"`
	HistoryCapacity int     `yaml:"history_capacity"`
}

// CropConfig controls the crop view and the accepted image.
type CropConfig struct {
	Padding      float64 `yaml:"padding"`
	MaxScale     float64 `yaml:"max_scale"`
	ZoomStep     float64 `yaml:"zoom_step"`
	MaxOutput    int     `yaml:"max_output"`
	JPEGQuality  int     `yaml:"jpeg_quality"`
	AutoCropArea float64 `yaml:"auto_crop_area"`
}

// ExportConfig controls exported files.
type ExportConfig struct {
	Multiplier float64 `yaml:"multiplier"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.Paper.Width == 0 && c.Paper.Height == 0 {
		c.Paper = units.A4
	}
	if c.Editor.Padding <= 0 {
		c.Editor.Padding = 80
	}
	if c.Editor.MinScale <= 0 {
		c.Editor.MinScale = 0.1
	}
	if c.Editor.MaxScale <= 0 {
		c.Editor.MaxScale = 5.0
	}
	if c.Editor.ZoomStep <= 0 {
		c.Editor.ZoomStep = 0.1
	}
	if c.Editor.BackgroundColor == "" {
		c.Editor.BackgroundColor = "#ffffff"
	}
	if c.Editor.HistoryCapacity <= 0 {
		c.Editor.HistoryCapacity = 20
	}
	if c.Crop.Padding <= 0 {
		c.Crop.Padding = 40
	}
	if c.Crop.MaxScale <= 0 {
		c.Crop.MaxScale = 5.0
	}
	if c.Crop.ZoomStep <= 0 {
		c.Crop.ZoomStep = 0.1
	}
	if c.Crop.MaxOutput <= 0 {
		c.Crop.MaxOutput = 4096
	}
	if c.Crop.JPEGQuality <= 0 {
		c.Crop.JPEGQuality = 90
	}
	if c.Crop.AutoCropArea <= 0 {
		c.Crop.AutoCropArea = 0.9
	}
	if c.Export.Multiplier <= 0 {
		c.Export.Multiplier = 2
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// DefaultPath is where the desktop app looks for its configuration:
// <user config dir>/poster-editor/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "poster-editor", "config.yaml")
}

// LoadOrDefault is Load, except that a missing file gives the defaults.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Load reads a YAML config file. Missing settings take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if err := c.Paper.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Editor.MinScale > c.Editor.MaxScale {
		return fmt.Errorf("%w: editor min_scale %g above max_scale %g", ErrInvalid, c.Editor.MinScale, c.Editor.MaxScale)
	}
	if _, err := colorutil.ParseHex(c.Editor.BackgroundColor); err != nil {
		return fmt.Errorf("%w: editor background_color: %v", ErrInvalid, err)
	}
	if c.Crop.JPEGQuality > 100 {
		return fmt.Errorf("%w: crop jpeg_quality %d not in 1..100", ErrInvalid, c.Crop.JPEGQuality)
	}
	if c.Crop.AutoCropArea > 1 {
		return fmt.Errorf("%w: crop auto_crop_area %g above 1", ErrInvalid, c.Crop.AutoCropArea)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Session returns the editor session parameters.
func (c EditorConfig) Session() editor.Config {
	cfg := editor.DefaultConfig()
	cfg.BackgroundColor = c.BackgroundColor
	cfg.Fit = viewtransform.FitOptions{Padding: c.Padding, CapAtOne: true, Floor: c.MinScale}
	cfg.MinScale = c.MinScale
	cfg.MaxScale = c.MaxScale
	cfg.HistoryCapacity = c.HistoryCapacity
	return cfg
}

// Session returns the crop session parameters.
func (c CropConfig) Session() crop.Config {
	cfg := crop.DefaultConfig()
	cfg.Padding = c.Padding
	cfg.MaxScale = c.MaxScale
	cfg.MaxOutput = c.MaxOutput
	cfg.JPEGQuality = c.JPEGQuality
	cfg.AutoCropArea = c.AutoCropArea
	return cfg
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, _ := ParseLogLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
