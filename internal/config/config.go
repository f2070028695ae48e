package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fintrack-dev/fintrack/internal/dedupe"
)

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Dedupe   DedupeConfig   `yaml:"dedupe"`
	Currency CurrencyConfig `yaml:"currency"`
	Import   ImportConfig   `yaml:"import"`
}

// DatabaseConfig locates the sqlite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DedupeConfig controls duplicate detection thresholds.
type DedupeConfig struct {
	DateWindowDays       int     `yaml:"date_window_days"`
	AmountTolerancePct   float64 `yaml:"amount_tolerance_pct"`
	DescriptionPrefixLen int     `yaml:"description_prefix_len"`
}

// Thresholds converts the config section to detector thresholds.
func (d DedupeConfig) Thresholds() dedupe.Thresholds {
	return dedupe.Thresholds{
		DateWindowDays:  d.DateWindowDays,
		AmountTolerance: decimal.NewFromFloat(d.AmountTolerancePct / 100),
		PrefixLength:    d.DescriptionPrefixLen,
	}
}

// CurrencyConfig sets display formatting.
type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
}

// ImportConfig controls statement import behavior.
type ImportConfig struct {
	DefaultAccount string `yaml:"default_account"`
	MaxFileSizeMB  int    `yaml:"max_file_size_mb"`
}

// Load reads a fintrack.yaml file from disk. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new setup.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "fintrack.db",
		},
		Dedupe: DedupeConfig{
			DateWindowDays:       1,
			AmountTolerancePct:   1.0,
			DescriptionPrefixLen: 10,
		},
		Currency: CurrencyConfig{
			Symbol: "₹",
		},
		Import: ImportConfig{
			DefaultAccount: "Imported",
			MaxFileSizeMB:  25,
		},
	}
}
