// Package config validates issuewatch configuration from files and from the
// environment. Validation is declarative and exhaustive: a candidate either
// becomes a fully defaulted Config or produces the complete list of
// path-scoped issues, never just the first failure.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Log levels accepted by the logLevel field.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Field bounds and defaults.
const (
	MinCredentialLen = 8
	MaxCredentialLen = 128

	MinTimeoutMS = 1000
	MaxTimeoutMS = 300000

	MinRateRequests     = 1
	MaxRateRequests     = 10000
	DefaultRateRequests = 1000

	MinRateWindowMS     = 1000
	MaxRateWindowMS     = 3600000
	DefaultRateWindowMS = 60000
)

// RateLimit configures the fixed-window admission budget.
type RateLimit struct {
	MaxRequests int `yaml:"maxRequests" json:"maxRequests"`
	WindowMS    int `yaml:"windowMs" json:"windowMs"`
}

// Config is the validated configuration document. Field names mirror the
// wire format used in config files and the JSON schema.
type Config struct {
	BaseURL     string     `yaml:"baseUrl" json:"baseUrl"`
	Credential  string     `yaml:"credential" json:"credential"`
	LogLevel    string     `yaml:"logLevel" json:"logLevel"`
	Timeout     int        `yaml:"timeout,omitempty" json:"timeout,omitempty"` // milliseconds
	Environment string     `yaml:"environment,omitempty" json:"environment,omitempty"`
	RateLimit   *RateLimit `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"`
}

// Load reads a YAML config file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
