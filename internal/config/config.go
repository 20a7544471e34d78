package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruminaider/dashpick/internal/timerange"
	"go.yaml.in/yaml/v3"
)

// CurrentVersion is the config format written by Marshal.
const CurrentVersion = "1"

// Config represents ~/.dashpick/config.yaml.
type Config struct {
	Version          string   `yaml:"version"`
	DefaultSelectAll bool     `yaml:"default_select_all"`
	IncludeTiFlash   bool     `yaml:"include_tiflash"`
	TopologyFile     string   `yaml:"topology_file,omitempty"`
	TimeRange        string   `yaml:"time_range,omitempty"`
	MatchAttrs       []string `yaml:"match_attrs,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Version:          CurrentVersion,
		DefaultSelectAll: true,
		TimeRange:        timerange.String(timerange.Default),
		MatchAttrs:       []string{"status", "component"},
	}
}

// Parse parses config.yaml bytes into a Config. Missing fields keep their
// defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if _, err := timerange.Parse(cfg.TimeRange); err != nil {
		return Config{}, fmt.Errorf("parsing config: time_range: %w", err)
	}
	return cfg, nil
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Load reads the config at path. A missing file yields Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Range returns the configured default time range.
func (c Config) Range() timerange.TimeRange {
	r, err := timerange.Parse(c.TimeRange)
	if err != nil {
		return timerange.Default
	}
	return r
}
