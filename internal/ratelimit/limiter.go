// Package ratelimit implements fixed-window admission control for tool
// invocations. One global counter and one counter per operation accumulate
// within a shared window; when the window expires every counter is reset at
// once. The reset is deliberately simultaneous rather than per-bucket — a
// burst of mixed operations straddling the boundary sees all budgets refreshed
// together. State is process-local; nothing is coordinated across instances.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Scope identifies which limit a rejected call ran into.
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeOperation Scope = "operation"
)

// LimitError is returned when a call exceeds the global or per-operation
// budget for the current window.
type LimitError struct {
	Scope     Scope
	Operation string
	Current   int
	Limit     int
	Window    time.Duration
}

func (e *LimitError) Error() string {
	if e.Scope == ScopeGlobal {
		return fmt.Sprintf("rate limit exceeded: %d/%d requests in %s window", e.Current, e.Limit, e.Window)
	}
	return fmt.Sprintf("rate limit exceeded for %s: %d/%d requests in %s window", e.Operation, e.Current, e.Limit, e.Window)
}

// Limiter is a fixed-window request counter shared by all in-flight
// invocations. The mutex spans the whole reset→read→compare→increment
// sequence and is never held across I/O.
type Limiter struct {
	mu          sync.Mutex
	limits      Limits
	windowStart time.Time
	global      int
	perOp       map[string]int
}

// New creates a Limiter. Zero Limits fields take package defaults.
func New(limits Limits) *Limiter {
	return &Limiter{
		limits: limits.withDefaults(),
		perOp:  make(map[string]int),
	}
}

// CheckAndConsume admits one call for the named operation at time now.
// Returns a *LimitError without consuming anything when either the global or
// the operation budget is already spent; otherwise both counters advance by
// exactly one.
func (l *Limiter) CheckAndConsume(op string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Lazy reset: the first call after expiry wipes every bucket together.
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.limits.Window {
		l.windowStart = now
		l.global = 0
		l.perOp = make(map[string]int)
	}

	if l.global >= l.limits.Global {
		return &LimitError{
			Scope:   ScopeGlobal,
			Current: l.global,
			Limit:   l.limits.Global,
			Window:  l.limits.Window,
		}
	}

	limit := l.limits.limitFor(op)
	if l.perOp[op] >= limit {
		return &LimitError{
			Scope:     ScopeOperation,
			Operation: op,
			Current:   l.perOp[op],
			Limit:     limit,
			Window:    l.limits.Window,
		}
	}

	l.global++
	l.perOp[op]++
	return nil
}

// Reset clears all counters and restarts the window at now.
func (l *Limiter) Reset(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windowStart = now
	l.global = 0
	l.perOp = make(map[string]int)
}

// Usage reports the current global count and a copy of the per-operation
// counts. Counts are as of the last admission; no reset is performed.
func (l *Limiter) Usage() (global int, perOp map[string]int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	perOp = make(map[string]int, len(l.perOp))
	for k, v := range l.perOp {
		perOp[k] = v
	}
	return l.global, perOp
}
