package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variable names consumed by FromEnv.
const (
	EnvBaseURL     = "ISSUEWATCH_BASE_URL"
	EnvCredential  = "ISSUEWATCH_API_TOKEN"
	EnvLogLevel    = "ISSUEWATCH_LOG_LEVEL"
	EnvTimeout     = "ISSUEWATCH_TIMEOUT"
	EnvEnvironment = "ISSUEWATCH_ENV"
)

// FromEnv builds and validates a config from environment variables, mapped
// onto the same schema and error shape as file-based validation.
func FromEnv() (*Config, error) {
	cfg := &Config{
		BaseURL:     os.Getenv(EnvBaseURL),
		Credential:  os.Getenv(EnvCredential),
		LogLevel:    os.Getenv(EnvLogLevel),
		Environment: os.Getenv(EnvEnvironment),
	}

	preIssues := []Issue{}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			preIssues = append(preIssues, Issue{
				Path:    "timeout",
				Message: fmt.Sprintf("%s must be a number of milliseconds; got %q", EnvTimeout, raw),
			})
		} else {
			cfg.Timeout = n
		}
	}

	if err := Validate(cfg); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && len(preIssues) > 0 {
			ve.Issues = append(preIssues, ve.Issues...)
		} else if len(preIssues) > 0 {
			return nil, &ValidationError{Issues: preIssues}
		}
		return nil, err
	}

	if len(preIssues) > 0 {
		return nil, &ValidationError{Issues: preIssues}
	}
	return cfg, nil
}
