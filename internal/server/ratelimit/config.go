package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Endpoints       []EndpointConfig
}

// EndpointConfig is the limit for one route pattern.
// Pattern segments equal to "*" match any single path segment.
type EndpointConfig struct {
	Pattern string
	Method  string
	Limit   int           // requests per Window, 0 means unlimited
	Window  time.Duration
	Burst   int // defaults to Limit
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Endpoints:       DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Batch screening is the
// expensive call and gets the strictest bucket.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Pattern: "/health", Method: "GET"},
		{Pattern: "/metrics", Method: "GET"},
		{Pattern: "/jobs/*/screen", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Pattern: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/jobs/*/close", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/jobs/*/candidates/*/status", Method: "PUT", Limit: 600, Window: time.Minute, Burst: 60},
	}
}

// LoadConfig builds the configuration from SCREENER_RATE_LIMIT_* variables.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("SCREENER_RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = getEnvInt("SCREENER_RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("SCREENER_RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("SCREENER_RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseList(os.Getenv("SCREENER_RATE_LIMIT_WHITELIST"))
	return cfg
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseList parses a comma-separated list of client ids into a set.
func parseList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result[item] = true
		}
	}
	return result
}
