// Package config provides configuration loading and validation for the screener.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/candidate-screener/internal/scoring"
)

// Defaults for fields left unset
const (
	DefaultWorkers = 4
	DefaultPort    = 8080
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Scoring
	JDMatchThreshold      *int `json:"jd_match_threshold,omitempty"`     // JD match score below which candidates are marked low match
	VerificationThreshold *int `json:"verification_threshold,omitempty"` // Verification score below which candidates are flagged for manual review

	// Runtime
	Workers int `json:"workers,omitempty"` // Candidates screened concurrently per batch
	Port    int `json:"port,omitempty"`    // HTTP port for serve

	// Logging
	LogJSON bool `json:"log_json,omitempty"` // Emit JSON logs
	Debug   bool `json:"debug,omitempty"`    // Enable debug logs
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.JDMatchThreshold != nil && (*c.JDMatchThreshold < 0 || *c.JDMatchThreshold > 100) {
		return fmt.Errorf("config error: 'jd_match_threshold' must be within [0,100]")
	}
	if c.VerificationThreshold != nil && (*c.VerificationThreshold < 0 || *c.VerificationThreshold > 100) {
		return fmt.Errorf("config error: 'verification_threshold' must be within [0,100]")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.JDMatchThreshold == nil {
		result.JDMatchThreshold = defaults.JDMatchThreshold
	}
	if result.VerificationThreshold == nil {
		result.VerificationThreshold = defaults.VerificationThreshold
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Default returns the built-in configuration
func Default() Config {
	jd := scoring.DefaultJDMatchThreshold
	verification := scoring.DefaultVerificationThreshold
	return Config{
		JDMatchThreshold:      &jd,
		VerificationThreshold: &verification,
		Workers:               DefaultWorkers,
		Port:                  DefaultPort,
	}
}

// Thresholds returns the scoring thresholds, using defaults for unset values
func (c *Config) Thresholds() scoring.Thresholds {
	t := scoring.DefaultThresholds()
	if c.JDMatchThreshold != nil {
		t.JDMatch = *c.JDMatchThreshold
	}
	if c.VerificationThreshold != nil {
		t.Verification = *c.VerificationThreshold
	}
	return t
}
