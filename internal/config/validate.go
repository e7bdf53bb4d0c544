package config

import (
	"fmt"
	"net/url"
)

// Issue is one path-scoped validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError collects every issue found in a candidate config.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("config validation failed: %s: %s", e.Issues[0].Path, e.Issues[0].Message)
	}
	return fmt.Sprintf("config validation failed: %d issues", len(e.Issues))
}

// add appends an issue.
func (e *ValidationError) add(path, message string) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: message})
}

// Validate checks a candidate config against the schema and collects the
// full list of issues. On success it applies defaults in place (logLevel,
// rateLimit) so the returned config is complete; on failure the candidate is
// left untouched and the error is a *ValidationError.
func Validate(c *Config) error {
	ve := &ValidationError{}

	validateBaseURL(c.BaseURL, ve)
	validateCredential(c.Credential, ve)

	if c.LogLevel != "" && !isLogLevel(c.LogLevel) {
		ve.add("logLevel", fmt.Sprintf("must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	if c.Timeout != 0 && (c.Timeout < MinTimeoutMS || c.Timeout > MaxTimeoutMS) {
		ve.add("timeout", fmt.Sprintf("must be between %d and %d milliseconds", MinTimeoutMS, MaxTimeoutMS))
	}

	if rl := c.RateLimit; rl != nil {
		if rl.MaxRequests != 0 && (rl.MaxRequests < MinRateRequests || rl.MaxRequests > MaxRateRequests) {
			ve.add("rateLimit.maxRequests", fmt.Sprintf("must be between %d and %d", MinRateRequests, MaxRateRequests))
		}
		if rl.WindowMS != 0 && (rl.WindowMS < MinRateWindowMS || rl.WindowMS > MaxRateWindowMS) {
			ve.add("rateLimit.windowMs", fmt.Sprintf("must be between %d and %d", MinRateWindowMS, MaxRateWindowMS))
		}
	}

	if len(ve.Issues) > 0 {
		return ve
	}

	applyDefaults(c)
	return nil
}

func validateBaseURL(raw string, ve *ValidationError) {
	if raw == "" {
		ve.add("baseUrl", "is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		ve.add("baseUrl", fmt.Sprintf("must be an absolute URL; got %q", raw))
		return
	}
	if u.Scheme != "https" {
		ve.add("baseUrl", fmt.Sprintf("must use the https scheme; got %q", u.Scheme))
	}
}

func validateCredential(cred string, ve *ValidationError) {
	if cred == "" {
		ve.add("credential", "is required")
		return
	}
	if len(cred) < MinCredentialLen {
		ve.add("credential", fmt.Sprintf("must be at least %d characters", MinCredentialLen))
	} else if len(cred) > MaxCredentialLen {
		ve.add("credential", fmt.Sprintf("must be at most %d characters", MaxCredentialLen))
	}
}

// applyDefaults fills optional fields after a candidate passed validation.
func applyDefaults(c *Config) {
	if c.LogLevel == "" {
		c.LogLevel = LevelInfo
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimit{}
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = DefaultRateRequests
	}
	if c.RateLimit.WindowMS == 0 {
		c.RateLimit.WindowMS = DefaultRateWindowMS
	}
}

func isLogLevel(s string) bool {
	switch s {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}
