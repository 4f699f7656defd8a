// Package config loads settings from defaults, an optional YAML file and
// TIMELINE_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Timeline TimelineConfig `yaml:"timeline"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TimelineConfig struct {
	// ClosingOffsetDays places the default closing date this many calendar
	// days after mutual acceptance.
	ClosingOffsetDays int `yaml:"closing_offset_days"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB: DBConfig{
			Path: "closing-timeline.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Timeline: TimelineConfig{
			ClosingOffsetDays: 30,
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. An empty path falls back to TIMELINE_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TIMELINE_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("TIMELINE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMELINE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TIMELINE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if offsetStr := os.Getenv("TIMELINE_CLOSING_OFFSET_DAYS"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMELINE_CLOSING_OFFSET_DAYS: %w", err)
		}
		cfg.Timeline.ClosingOffsetDays = offset
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	level := strings.ToLower(c.Log.Level)
	valid := false
	for _, l := range logLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("log.level %q must be one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if c.Timeline.ClosingOffsetDays < 1 {
		return fmt.Errorf("timeline.closing_offset_days must be positive, got %d", c.Timeline.ClosingOffsetDays)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
