package utils

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the game
type Config struct {
	Width               int     `json:"width" yaml:"width"`
	Height              int     `json:"height" yaml:"height"`
	TicksPerSecond      float64 `json:"ticks_per_second" yaml:"ticks_per_second"`
	RenderRate          float64 `json:"render_rate" yaml:"render_rate"`
	AutoRestart         bool    `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int     `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	MaxGenerations      int     `json:"max_generations" yaml:"max_generations"`
	Pattern             string  `json:"pattern" yaml:"pattern"`
	Cells               string  `json:"cells" yaml:"cells"`
	RandomDensity       float64 `json:"random_density" yaml:"random_density"`
	UseDenseGrid        bool    `json:"use_dense_grid" yaml:"use_dense_grid"`
	UseBoundedGrid      bool    `json:"use_bounded_grid" yaml:"use_bounded_grid"`
	UseMemoryPool       bool    `json:"use_memory_pool" yaml:"use_memory_pool"`
	LogLevel            string  `json:"log_level" yaml:"log_level"`
	MetricsAddr         string  `json:"metrics_addr" yaml:"metrics_addr"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               60,
		Height:              30,
		TicksPerSecond:      15,
		RenderRate:          30,
		AutoRestart:         false,
		StagnationThreshold: 5,
		MaxGenerations:      1000,
		Pattern:             "glider",
		RandomDensity:       0.15,
		UseBoundedGrid:      true, // Enable active region optimization for the dense grid
		UseMemoryPool:       true,
		LogLevel:            "info",
	}
}

// TickInterval is the period between generations
func (c Config) TickInterval() time.Duration {
	if c.TicksPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.TicksPerSecond)
}

// RenderInterval is the period between frames
func (c Config) RenderInterval() time.Duration {
	if c.RenderRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.RenderRate)
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks values that would make the game unusable
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("[Validate] viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("[Validate] random_density must be within [0, 1], got %v", c.RandomDensity)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal yaml from file: %+v", filename)
		}
	default:
		if err = json.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
		}
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}
	return config, nil
}
