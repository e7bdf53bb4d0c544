package config

import (
	"fmt"
	"strings"
)

// FormatIssues renders issues one per line as "path: message".
func FormatIssues(issues []Issue) string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.Path + ": " + issue.Message
	}
	return strings.Join(lines, "\n")
}

// fieldSuggestions maps an issue path prefix to remediation text.
var fieldSuggestions = []struct {
	prefix string
	text   string
}{
	{"baseUrl", "set baseUrl to an absolute URL with a secure transport scheme, e.g. https://tracker.example.com"},
	{"credential", fmt.Sprintf("credential must be an API token between %d and %d characters; generate one in the tracker's access settings", MinCredentialLen, MaxCredentialLen)},
	{"logLevel", "logLevel must be one of: debug, info, warn, error"},
	{"timeout", fmt.Sprintf("timeout is in milliseconds and must be between %d and %d", MinTimeoutMS, MaxTimeoutMS)},
	{"rateLimit", fmt.Sprintf("rateLimit.maxRequests must be %d-%d and rateLimit.windowMs %d-%d", MinRateRequests, MaxRateRequests, MinRateWindowMS, MaxRateWindowMS)},
}

const genericSuggestion = "run `issuewatch config template` to see a valid example configuration"

// Suggestions returns deduplicated remediation hints for a set of issues,
// falling back to generic guidance when no field-specific hint matches.
func Suggestions(issues []Issue) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, issue := range issues {
		matched := false
		for _, fs := range fieldSuggestions {
			if strings.HasPrefix(issue.Path, fs.prefix) {
				add(fs.text)
				matched = true
				break
			}
		}
		if !matched {
			add(genericSuggestion)
		}
	}
	return out
}

// ValidateStrict validates a candidate and, on failure, returns one composite
// error combining the formatted issues with their suggestions.
func ValidateStrict(c *Config) error {
	err := Validate(c)
	if err == nil {
		return nil
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}

	var b strings.Builder
	b.WriteString("invalid configuration:\n")
	b.WriteString(FormatIssues(ve.Issues))
	if suggestions := Suggestions(ve.Issues); len(suggestions) > 0 {
		b.WriteString("\n\nsuggestions:\n")
		for _, s := range suggestions {
			b.WriteString("  - " + s + "\n")
		}
	}
	return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}
