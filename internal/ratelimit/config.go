package ratelimit

import "time"

// Default values applied when a Limits field is left zero.
const (
	DefaultGlobalLimit    = 1000
	DefaultOperationLimit = 60
	DefaultWindow         = time.Minute
)

// Limits configures the fixed-window limiter. PerOperation maps operation
// names to their per-window maximum; names not listed fall back to
// DefaultOperation.
type Limits struct {
	Global           int            `yaml:"max_requests"`
	DefaultOperation int            `yaml:"default_operation"`
	PerOperation     map[string]int `yaml:"per_operation"`
	Window           time.Duration  `yaml:"window"`
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (l Limits) withDefaults() Limits {
	if l.Global <= 0 {
		l.Global = DefaultGlobalLimit
	}
	if l.DefaultOperation <= 0 {
		l.DefaultOperation = DefaultOperationLimit
	}
	if l.Window <= 0 {
		l.Window = DefaultWindow
	}
	return l
}

// limitFor returns the per-window maximum for an operation name.
func (l Limits) limitFor(op string) int {
	if max, ok := l.PerOperation[op]; ok && max > 0 {
		return max
	}
	return l.DefaultOperation
}
