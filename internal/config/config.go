// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var periodPattern = regexp.MustCompile(`^\d{4}-\d{1,2}$`)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DataDir     string
	Period      string
	Rule        RuleConfig
}

// RuleConfig is the default judgment rule. Submissions may override it
// per request.
type RuleConfig struct {
	Great int
	Good  int
	Miss  int
}

// Load reads configuration from environment variables. PERIOD defaults
// to the current calendar month; records never carry over between
// periods because each period has its own snapshot files.
func Load() (*Config, error) {
	now := time.Now()
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DataDir:     getEnv("DATA_DIR", "./data"),
		Period:      getEnv("PERIOD", fmt.Sprintf("%d-%d", now.Year(), int(now.Month()))),
		Rule: RuleConfig{
			Great: getEnvInt("RULE_GREAT", 2),
			Good:  getEnvInt("RULE_GOOD", 3),
			Miss:  getEnvInt("RULE_MISS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if !periodPattern.MatchString(c.Period) {
		return fmt.Errorf("PERIOD must look like <year>-<month>, got %q", c.Period)
	}
	if c.Rule.Great <= 0 || c.Rule.Good <= 0 || c.Rule.Miss <= 0 {
		return fmt.Errorf("rule weights must be positive, got %d/%d/%d", c.Rule.Great, c.Rule.Good, c.Rule.Miss)
	}
	return nil
}

// CatalogPath returns the course catalog file for the configured
// period.
func (c *Config) CatalogPath() string {
	return fmt.Sprintf("%s/courses-%s.json", strings.TrimRight(c.DataDir, "/"), c.Period)
}

// RecordsPath returns the record snapshot file for the configured
// period.
func (c *Config) RecordsPath() string {
	return fmt.Sprintf("%s/records-%s.json", strings.TrimRight(c.DataDir, "/"), c.Period)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
