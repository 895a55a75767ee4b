// Package config loads repeater settings from a config.yaml next to the
// card database. A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-tunable scheduler and session settings.
type Config struct {
	// DesiredRetention is the recall probability the scheduler targets
	// when picking the next interval (default: 0.9).
	DesiredRetention float64 `yaml:"desired_retention"`

	// MaximumIntervalDays caps the scheduled interval (default: 36500).
	MaximumIntervalDays int `yaml:"maximum_interval_days"`

	// CardLimit bounds a drill session; 0 means unlimited.
	CardLimit int `yaml:"card_limit"`

	// NewCardLimit bounds unseen cards per drill session; 0 means unlimited.
	NewCardLimit int `yaml:"new_card_limit"`

	// DatabasePath overrides the default cards.db location.
	DatabasePath string `yaml:"database_path"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DesiredRetention:    0.9,
		MaximumIntervalDays: 36500,
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// DefaultPath returns <user-config-dir>/repeater/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "repeater", "config.yaml"), nil
}

func (c Config) validate() error {
	if c.DesiredRetention <= 0 || c.DesiredRetention >= 1 {
		return fmt.Errorf("desired_retention must be between 0 and 1 exclusive, got %v", c.DesiredRetention)
	}
	if c.MaximumIntervalDays < 1 {
		return fmt.Errorf("maximum_interval_days must be at least 1, got %d", c.MaximumIntervalDays)
	}
	if c.CardLimit < 0 {
		return fmt.Errorf("card_limit cannot be negative, got %d", c.CardLimit)
	}
	if c.NewCardLimit < 0 {
		return fmt.Errorf("new_card_limit cannot be negative, got %d", c.NewCardLimit)
	}
	return nil
}
