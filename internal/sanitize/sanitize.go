// Package sanitize rewrites error messages before they cross the tool
// boundary. Errors from the validation and rate-limit layers are safe by
// construction and pass through verbatim; anything else gets its message
// scrubbed of tokens, paths, and connection strings, with whole-message
// replacement for filesystem and database failures.
package sanitize

import (
	"errors"
	"regexp"
	"strings"

	"github.com/issuewatch/issuewatch/internal/config"
	"github.com/issuewatch/issuewatch/internal/guard"
	"github.com/issuewatch/issuewatch/internal/ratelimit"
)

// Replacement markers and generic messages.
const (
	redactedToken      = "[REDACTED]"
	redactedPath       = "[PATH_REDACTED]"
	redactedConnection = "[CONNECTION_REDACTED]"
	genericInternal    = "Internal server error"
	genericDatabase    = "Database connection error"
)

// SanitizedError carries a scrubbed message. Its presence marks an error as
// already redacted so a second pass leaves it alone.
type SanitizedError struct {
	Message string
}

func (e *SanitizedError) Error() string {
	return e.Message
}

var (
	// Hex secrets: API tokens, session IDs, digest-sized blobs.
	hexTokenRe = regexp.MustCompile(`\b[0-9a-fA-F]{32,64}\b`)

	// Absolute paths anchored at common roots, and Windows drive paths.
	posixPathRe = regexp.MustCompile(`(/(?:home|var|etc|root|usr|tmp|opt|proc|srv)/\S+)`)
	winPathRe   = regexp.MustCompile(`[A-Za-z]:\\[^\s"']+`)

	// Anything that looks like a scheme://... connection string.
	connStringRe = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9+.\-]*://\S+`)
)

// placeholderSecrets are literal stand-in credentials that still should not
// echo back to callers.
var placeholderSecrets = []string{
	"your-api-token",
	"your-token-here",
	"changeme",
	"placeholder-secret",
}

// fsErrorMarkers turn the whole message into a generic internal error.
var fsErrorMarkers = []string{
	"no such file or directory",
	"enoent",
	"eacces",
	"permission denied",
	"file not found",
	"is a directory",
}

// dbErrorMarkers turn the whole message into a generic database error.
var dbErrorMarkers = []string{
	"econnrefused",
	"connection refused",
	"connection reset",
	"database",
	"sqlstate",
	"pg_hba",
	"mongodb",
}

// Sanitize returns err untouched when it belongs to a safe category, and a
// *SanitizedError with a scrubbed message otherwise. It never panics; if
// scrubbing itself fails the result is a generic internal error.
func Sanitize(err error) error {
	if err == nil {
		return nil
	}
	if isSafe(err) {
		return err
	}
	return &SanitizedError{Message: scrub(err.Error())}
}

// isSafe reports whether the error's message may be surfaced verbatim.
func isSafe(err error) bool {
	var (
		sanitized *SanitizedError
		invalid   *guard.InvalidInputError
		tooLarge  *guard.PayloadTooLargeError
		tooMany   *guard.TooManyParamsError
		badType   *guard.ParamTypeError
		limited   *ratelimit.LimitError
		cfgErr    *config.ValidationError
	)
	switch {
	case errors.As(err, &sanitized),
		errors.As(err, &invalid),
		errors.As(err, &tooLarge),
		errors.As(err, &tooMany),
		errors.As(err, &badType),
		errors.As(err, &limited),
		errors.As(err, &cfgErr):
		return true
	}
	return false
}

// scrub applies the redaction passes in order. Any internal failure yields
// the generic message rather than leaking content.
func scrub(msg string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = genericInternal
		}
	}()

	out = hexTokenRe.ReplaceAllString(msg, redactedToken)
	for _, secret := range placeholderSecrets {
		out = strings.ReplaceAll(out, secret, redactedToken)
	}

	out = posixPathRe.ReplaceAllString(out, redactedPath)
	out = winPathRe.ReplaceAllString(out, redactedPath)

	out = connStringRe.ReplaceAllString(out, redactedConnection)

	lower := strings.ToLower(out)
	for _, marker := range fsErrorMarkers {
		if strings.Contains(lower, marker) {
			return genericInternal
		}
	}
	for _, marker := range dbErrorMarkers {
		if strings.Contains(lower, marker) {
			return genericDatabase
		}
	}
	return out
}
