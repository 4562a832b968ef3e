package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv
const (
	EnvJDMatchThreshold      = "SCREENER_JD_MATCH_THRESHOLD"
	EnvVerificationThreshold = "SCREENER_VERIFICATION_THRESHOLD"
	EnvWorkers               = "SCREENER_WORKERS"
	EnvPort                  = "SCREENER_PORT"
)

// ApplyEnv overrides fields with any SCREENER_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok, err := envInt(EnvJDMatchThreshold); err != nil {
		return err
	} else if ok {
		c.JDMatchThreshold = &v
	}

	if v, ok, err := envInt(EnvVerificationThreshold); err != nil {
		return err
	} else if ok {
		c.VerificationThreshold = &v
	}

	if v, ok, err := envInt(EnvWorkers); err != nil {
		return err
	} else if ok {
		c.Workers = v
	}

	if v, ok, err := envInt(EnvPort); err != nil {
		return err
	} else if ok {
		c.Port = v
	}

	return nil
}

func envInt(name string) (int, bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, true, nil
}
