// Package config loads twisty settings from a YAML file and TWISTY_*
// environment variables. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/logging"
)

// Config holds every runtime setting.
type Config struct {
	MoveDuration  time.Duration `yaml:"move_duration" env:"TWISTY_MOVE_DURATION"`
	Easing        string        `yaml:"easing" env:"TWISTY_EASING"`
	CubieSize     float64       `yaml:"cubie_size" env:"TWISTY_CUBIE_SIZE"`
	Tolerance     float64       `yaml:"tolerance" env:"TWISTY_TOLERANCE"` // 0 means a quarter of CubieSize
	FrameInterval time.Duration `yaml:"frame_interval" env:"TWISTY_FRAME_INTERVAL"`
	DBPath        string        `yaml:"db_path" env:"TWISTY_DB"`
	MetricsAddr   string        `yaml:"metrics_addr" env:"TWISTY_METRICS_ADDR"`
	LogLevel      string        `yaml:"log_level" env:"TWISTY_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MoveDuration:  twisty.DefaultMoveDuration,
		Easing:        "quad-in-out",
		CubieSize:     twisty.DefaultCubieSize,
		FrameInterval: 16 * time.Millisecond,
		LogLevel:      "info",
	}
}

// Load starts from Default, overlays the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.MoveDuration < 0 {
		errs = append(errs, fmt.Errorf("move_duration must not be negative, got %v", c.MoveDuration))
	}
	if c.CubieSize <= 0 {
		errs = append(errs, fmt.Errorf("cubie_size must be positive, got %v", c.CubieSize))
	}
	if c.Tolerance < 0 || (c.CubieSize > 0 && c.Tolerance >= c.CubieSize/2) {
		errs = append(errs, fmt.Errorf("tolerance must be in [0, cubie_size/2), got %v", c.Tolerance))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval))
	}
	if _, err := twisty.ParseEasing(c.Easing); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewAssembly builds an assembly with the configured geometry.
func (c Config) NewAssembly() (*twisty.Assembly, error) {
	a := twisty.NewAssembly(c.CubieSize)
	if c.Tolerance > 0 {
		if err := a.SetTolerance(c.Tolerance); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// SequencerOptions maps the animation settings onto sequencer options.
func (c Config) SequencerOptions() []twisty.Option {
	opts := []twisty.Option{twisty.WithMoveDuration(c.MoveDuration)}
	if e, err := twisty.ParseEasing(c.Easing); err == nil {
		opts = append(opts, twisty.WithEasing(e))
	}
	return opts
}
