// Package config holds scansector configuration.
//
// Config lives at ~/.scansector/config.yaml. Environment variables with
// the SCANSECTOR_ prefix override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	// SavesDir is the Starsector saves directory scanned by default.
	SavesDir string `yaml:"saves_dir" env:"SAVES_DIR"`

	// Theme selects the color scheme: dark, light or auto.
	Theme string `yaml:"theme" env:"THEME"`

	Grid    GridConfig    `yaml:"grid" envPrefix:"GRID_"`
	History HistoryConfig `yaml:"history" envPrefix:"HISTORY_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// GridConfig controls the rendered map.
type GridConfig struct {
	Width  int  `yaml:"width" env:"WIDTH"`
	Height int  `yaml:"height" env:"HEIGHT"`
	Labels bool `yaml:"labels" env:"LABELS"`
	Axes   bool `yaml:"axes" env:"AXES"`
}

// HistoryConfig controls the scan history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// LoggingConfig controls the zap logger used by CLI commands.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"` // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		SavesDir: "",
		Theme:    "auto",
		Grid: GridConfig{
			Width:  96,
			Height: 32,
			Labels: true,
			Axes:   true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(home, ".scansector", "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scansector.yaml"
	}
	return filepath.Join(home, ".scansector", "config.yaml")
}

// Load reads the config at path, fills in defaults for anything unset and
// applies environment overrides. A missing file is not an error: defaults
// plus environment apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SCANSECTOR_"}); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("invalid theme %q: want dark, light or auto", c.Theme)
	}

	if c.Grid.Width < 0 || c.Grid.Height < 0 {
		return fmt.Errorf("grid dimensions must not be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}
