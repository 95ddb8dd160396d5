// Package config loads application configuration from an optional YAML file
// with RAILMAP_* environment-variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Intervals are plain seconds in
// the file and environment; use the accessor methods for durations.
type Config struct {
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	TrackURL    string `yaml:"track_url" validate:"required,url"`
	StationsURL string `yaml:"stations_url" validate:"omitempty,url"` // defaults to TrackURL
	VehiclesURL string `yaml:"vehicles_url" validate:"required,url"`

	VehicleFormat      string `yaml:"vehicle_format" validate:"omitempty,oneof=json gtfsrt"`
	VehicleIntervalSec int    `yaml:"vehicle_interval_sec" validate:"omitempty,gt=0"`
	OnBusy             string `yaml:"on_busy" validate:"omitempty,oneof=drop queue"`

	PositionFile        string  `yaml:"position_file"`
	PositionIntervalSec int     `yaml:"position_interval_sec" validate:"omitempty,gt=0"`
	FixedLat            float64 `yaml:"fixed_lat" validate:"omitempty,latitude"`
	FixedLon            float64 `yaml:"fixed_lon" validate:"omitempty,longitude"`

	HTTPTimeoutSec int `yaml:"http_timeout_sec" validate:"omitempty,gt=0"`
}

// Load reads the YAML file at path (optional; "" consults RAILMAP_CONFIG),
// applies environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("RAILMAP_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = envStr("RAILMAP_LOG_LEVEL", c.LogLevel)
	c.TrackURL = envStr("RAILMAP_TRACK_URL", c.TrackURL)
	c.StationsURL = envStr("RAILMAP_STATIONS_URL", c.StationsURL)
	c.VehiclesURL = envStr("RAILMAP_VEHICLES_URL", c.VehiclesURL)
	c.VehicleFormat = envStr("RAILMAP_VEHICLE_FORMAT", c.VehicleFormat)
	c.VehicleIntervalSec = envInt("RAILMAP_VEHICLE_INTERVAL_SEC", c.VehicleIntervalSec)
	c.OnBusy = envStr("RAILMAP_ON_BUSY", c.OnBusy)
	c.PositionFile = envStr("RAILMAP_POSITION_FILE", c.PositionFile)
	c.PositionIntervalSec = envInt("RAILMAP_POSITION_INTERVAL_SEC", c.PositionIntervalSec)
	c.HTTPTimeoutSec = envInt("RAILMAP_HTTP_TIMEOUT_SEC", c.HTTPTimeoutSec)
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StationsURL == "" {
		c.StationsURL = c.TrackURL
	}
	if c.VehicleFormat == "" {
		c.VehicleFormat = "json"
	}
	if c.VehicleIntervalSec == 0 {
		c.VehicleIntervalSec = 15
	}
	if c.OnBusy == "" {
		c.OnBusy = "drop"
	}
	if c.PositionIntervalSec == 0 {
		c.PositionIntervalSec = 5
	}
	if c.HTTPTimeoutSec == 0 {
		c.HTTPTimeoutSec = 10
	}
}

// VehicleInterval returns the vehicle poll cadence.
func (c *Config) VehicleInterval() time.Duration {
	return time.Duration(c.VehicleIntervalSec) * time.Second
}

// PositionInterval returns the position-file poll cadence.
func (c *Config) PositionInterval() time.Duration {
	return time.Duration(c.PositionIntervalSec) * time.Second
}

// HTTPTimeout returns the per-request transport timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
