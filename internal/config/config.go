// Package config loads the settings of the usesig command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

type Config struct {
	// IncludeCurrent mirrors the present value as the top history entry.
	IncludeCurrent bool `yaml:"include_current"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// MetricsAddr serves Prometheus metrics when set, e.g. "localhost:9090".
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	Prompt string `yaml:"prompt" validate:"max=16"`
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Prompt:   "> ",
	}
}

// Load reads path over the defaults, then applies USESIG_* environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("USESIG_INCLUDE_CURRENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: USESIG_INCLUDE_CURRENT=%q: %w", ErrInvalid, v, err)
		}
		cfg.IncludeCurrent = b
	}
	if v := os.Getenv("USESIG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("USESIG_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	return nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown levels fall back to warn.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
