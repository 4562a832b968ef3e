package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-screener/internal/config"
	"github.com/jonathan/candidate-screener/internal/logger"
	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/screening"
	"github.com/jonathan/candidate-screener/internal/types"
)

// loadSettings resolves configuration: file, then SCREENER_* environment,
// then defaults. Logging flags win over both.
func loadSettings() (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("failed to apply environment: %w", err)
	}

	merged := cfg.MergeWithDefaults(config.Default())
	merged.Debug = merged.Debug || debugLogs
	merged.LogJSON = merged.LogJSON || jsonLogs

	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// newSession builds the logger and a screening session from settings
func newSession(cfg config.Config) (*screening.Session, *zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	session, err := screening.New(screening.Options{
		Thresholds: cfg.Thresholds(),
		Workers:    cfg.Workers,
		Logger:     log,
	})
	if err != nil {
		return nil, nil, err
	}
	return session, log, nil
}

// readValidated reads a JSON file and checks it against an embedded schema
func readValidated(path, schema string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(schema, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// loadJob reads a JobPosting file
func loadJob(path string) (types.JobPosting, error) {
	data, err := readValidated(path, schemas.JobPosting)
	if err != nil {
		return types.JobPosting{}, err
	}
	var job types.JobPosting
	if err := json.Unmarshal(data, &job); err != nil {
		return types.JobPosting{}, fmt.Errorf("failed to unmarshal job posting JSON: %w", err)
	}
	return job, nil
}

// loadCandidates reads a CandidateEvidence batch file. Records that do not
// fit the schema are kept for the result's failed list.
func loadCandidates(path string) (*screening.Intake, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	intake, err := screening.DecodeBatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return intake, nil
}

// loadResults reads a BatchResult file written by the screen command
func loadResults(path string) (*types.BatchResult, error) {
	data, err := readValidated(path, schemas.ScreeningResult)
	if err != nil {
		return nil, err
	}
	var result types.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screening result JSON: %w", err)
	}
	return &result, nil
}

// writeResults writes a BatchResult as indented JSON, creating the directory
// if needed, then checks the written file against its schema. The check is
// a safety net and only warns.
func writeResults(path string, result *types.BatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal screening result to JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screening result to %s: %w", path, err)
	}

	if err := schemas.Validate(schemas.ScreeningResult, data); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
	}
	return nil
}
