package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/truelinks/internal/render"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Display holds the user-facing toggles for link inspection.
type Display struct {
	Enabled  bool   `yaml:"enabled"`
	Detailed bool   `yaml:"detailed"`
	Color    string `yaml:"color"`
}

// RenderOptions resolves the display toggles for one output stream.
func (d Display) RenderOptions(isTerminal bool) render.Options {
	color := false
	switch d.Color {
	case ColorAlways:
		color = true
	case ColorAuto, "":
		color = isTerminal
	}
	return render.Options{Detailed: d.Detailed, Color: color}
}

// Logging configures the process logger.
type Logging struct {
	Level      string `yaml:"level"`
	LogDir     string `yaml:"log_dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config is the full truelinks configuration.
type Config struct {
	Display Display `yaml:"display"`
	Logging Logging `yaml:"logging"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: Display{
			Enabled:  true,
			Detailed: false,
			Color:    ColorAuto,
		},
		Logging: Logging{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Validate rejects settings that cannot be applied.
func (c *Config) Validate() error {
	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return fmt.Errorf("invalid display.color %q (want auto|always|never)", c.Display.Color)
	}
	if c.Logging.LogDir != "" && (c.Logging.MaxSizeMB <= 0 || c.Logging.MaxBackups <= 0 || c.Logging.MaxAgeDays <= 0) {
		return fmt.Errorf("invalid log rotation: size=%d backups=%d age_days=%d",
			c.Logging.MaxSizeMB, c.Logging.MaxBackups, c.Logging.MaxAgeDays)
	}
	return nil
}

// DefaultPath returns ~/.truelinks/config.yaml, or "" if home is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".truelinks", "config.yaml")
}

// LoadConfig loads configuration from a YAML file.
// Empty path falls back to ~/.truelinks/config.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	// Start with defaults, YAML overwrites only specified fields
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigYAML returns a commented YAML string for init-config.
func DefaultConfigYAML() string {
	return `# truelinks configuration
# Generated by: truelinks init-config
#
# Changes are picked up live by long-running commands (truelinks mcp).

display:
  # Evaluate links at all. When false, links are passed through unscored.
  enabled: true
  # Show host/path and the top three reason tags, not just the score line.
  detailed: false
  # Terminal colours: auto (only on a TTY) | always | never
  color: auto

logging:
  # debug | info | warn | error
  level: info
  # When set, logs are also written to <log_dir>/truelinks.log with rotation.
  log_dir: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 14
  compress: false
`
}
