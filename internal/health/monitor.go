// Package health aggregates memory and CPU sampling, a liveness probe
// against the remote tracker, and running request-outcome counters into a
// composite snapshot. Every fallible sub-probe is wrapped so the composite
// path can degrade but never fail.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Composite health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Remote probe states.
const (
	RemoteConnected = "connected"
	RemoteError     = "error"
	RemoteUnknown   = "unknown"
)

// memoryWarnPercent marks heap usage above which the snapshot degrades.
const memoryWarnPercent = 90

// Probe is a minimal read-only call against the remote system, supplied by
// the tracker client.
type Probe func(ctx context.Context) error

// RemoteStatus is the outcome of one liveness probe.
type RemoteStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RequestMetrics are monotonically increasing outcome counters.
type RequestMetrics struct {
	Total       uint64 `json:"total"`
	Success     uint64 `json:"success"`
	Errors      uint64 `json:"errors"`
	RateLimited uint64 `json:"rateLimited"`
}

// Snapshot is an immutable composite health document.
type Snapshot struct {
	Status        string         `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
	UptimeSeconds float64        `json:"uptimeSeconds"`
	Memory        MemoryMetrics  `json:"memory"`
	CPU           CPUMetrics     `json:"cpu"`
	Remote        RemoteStatus   `json:"remote"`
	ToolCount     int            `json:"toolCount"`
	Requests      RequestMetrics `json:"requests"`
	Errors        []string       `json:"errors,omitempty"`
}

// Monitor owns the request-outcome counters and produces snapshots. Safe for
// concurrent use; the probe is the only suspending operation and runs
// without holding the lock.
type Monitor struct {
	start time.Time

	mu      sync.Mutex
	metrics RequestMetrics
}

// NewMonitor creates a Monitor with uptime measured from now.
func NewMonitor() *Monitor {
	return &Monitor{start: time.Now()}
}

// RecordOutcome increments the outcome counters for one completed call.
// Counters only ever grow.
func (m *Monitor) RecordOutcome(success, rateLimited bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.Total++
	switch {
	case rateLimited:
		m.metrics.RateLimited++
	case success:
		m.metrics.Success++
	default:
		m.metrics.Errors++
	}
}

// RequestMetrics returns a copy of the counters.
func (m *Monitor) RequestMetrics() RequestMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// ProbeRemote runs the liveness probe and measures its latency.
func (m *Monitor) ProbeRemote(ctx context.Context, probe Probe) RemoteStatus {
	if probe == nil {
		return RemoteStatus{Status: RemoteUnknown}
	}
	start := time.Now()
	if err := probe(ctx); err != nil {
		return RemoteStatus{Status: RemoteError, Error: err.Error()}
	}
	return RemoteStatus{Status: RemoteConnected, LatencyMS: time.Since(start).Milliseconds()}
}

// GetSnapshot composes memory, CPU, and remote probe results. A failing
// sub-probe degrades the snapshot; this method never returns an error and
// never panics.
func (m *Monitor) GetSnapshot(ctx context.Context, probe Probe, toolCount int) (snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			snap = Snapshot{
				Status:    StatusDegraded,
				Timestamp: time.Now().UTC(),
				Remote:    RemoteStatus{Status: RemoteUnknown},
				ToolCount: toolCount,
				Errors:    []string{fmt.Sprintf("health snapshot failed: %v", r)},
			}
		}
	}()

	var errs []string

	mem, err := SampleMemory()
	if err != nil {
		errs = append(errs, fmt.Sprintf("memory sampling unavailable: %v", err))
	}

	cpu := SampleCPU()
	remote := m.ProbeRemote(ctx, probe)

	return m.compose(mem, cpu, remote, toolCount, errs)
}

// compose merges the sampled parts into a snapshot and decides the overall
// status.
func (m *Monitor) compose(mem MemoryMetrics, cpu CPUMetrics, remote RemoteStatus, toolCount int, errs []string) Snapshot {
	status := StatusHealthy

	if remote.Status == RemoteError {
		status = StatusDegraded
		errs = append(errs, "remote tracker unreachable: "+remote.Error)
	}
	if mem.Percentage > memoryWarnPercent {
		status = StatusDegraded
		errs = append(errs, fmt.Sprintf("high memory usage: %.1f%%", mem.Percentage))
	}
	if len(errs) > 0 && status == StatusHealthy {
		status = StatusDegraded
	}

	return Snapshot{
		Status:        status,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(m.start).Seconds(),
		Memory:        mem,
		CPU:           cpu,
		Remote:        remote,
		ToolCount:     toolCount,
		Requests:      m.RequestMetrics(),
		Errors:        errs,
	}
}
