package health

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestSampleMemory(t *testing.T) {
	mem, err := SampleMemory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Total == 0 {
		t.Error("expected nonzero total")
	}
	if mem.Used > mem.Total {
		t.Errorf("used %d exceeds total %d", mem.Used, mem.Total)
	}
	if mem.Free != mem.Total-mem.Used {
		t.Errorf("free %d != total-used %d", mem.Free, mem.Total-mem.Used)
	}
	if mem.Percentage < 0 || mem.Percentage > 100 {
		t.Errorf("percentage out of range: %f", mem.Percentage)
	}
}

func TestSampleCPUNeverZeroCores(t *testing.T) {
	cpu := SampleCPU()
	if cpu.Cores < 1 {
		t.Errorf("expected at least one core, got %d", cpu.Cores)
	}
	if cpu.Goroutines < 1 {
		t.Errorf("expected at least one goroutine, got %d", cpu.Goroutines)
	}
}

func TestProbeRemoteSuccess(t *testing.T) {
	m := NewMonitor()
	status := m.ProbeRemote(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if status.Status != RemoteConnected {
		t.Errorf("expected connected, got %q", status.Status)
	}
	if status.Error != "" {
		t.Errorf("expected empty error, got %q", status.Error)
	}
}

func TestProbeRemoteFailure(t *testing.T) {
	m := NewMonitor()
	status := m.ProbeRemote(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	if status.Status != RemoteError {
		t.Errorf("expected error status, got %q", status.Status)
	}
	if status.Error != "boom" {
		t.Errorf("expected probe failure text, got %q", status.Error)
	}
}

func TestProbeRemoteNilProbe(t *testing.T) {
	m := NewMonitor()
	status := m.ProbeRemote(context.Background(), nil)
	if status.Status != RemoteUnknown {
		t.Errorf("expected unknown, got %q", status.Status)
	}
}

func TestSnapshotHealthy(t *testing.T) {
	m := NewMonitor()
	snap := m.GetSnapshot(context.Background(), func(ctx context.Context) error {
		return nil
	}, 5)

	if snap.Status != StatusHealthy {
		t.Errorf("expected healthy, got %q (errors: %v)", snap.Status, snap.Errors)
	}
	if snap.Remote.Status != RemoteConnected {
		t.Errorf("expected remote connected, got %q", snap.Remote.Status)
	}
	if snap.ToolCount != 5 {
		t.Errorf("expected toolCount=5, got %d", snap.ToolCount)
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("negative uptime: %f", snap.UptimeSeconds)
	}
}

func TestSnapshotDegradedOnProbeFailure(t *testing.T) {
	m := NewMonitor()
	snap := m.GetSnapshot(context.Background(), func(ctx context.Context) error {
		return errors.New("tracker timeout")
	}, 5)

	if snap.Status != StatusDegraded {
		t.Errorf("expected degraded, got %q", snap.Status)
	}
	if snap.Remote.Status != RemoteError {
		t.Errorf("expected remote error, got %q", snap.Remote.Status)
	}
	if snap.Remote.Error != "tracker timeout" {
		t.Errorf("expected probe failure text carried, got %q", snap.Remote.Error)
	}
	if len(snap.Errors) == 0 {
		t.Fatal("expected errors entry")
	}
}

func TestComposeDegradedOnHighMemory(t *testing.T) {
	m := NewMonitor()
	mem := MemoryMetrics{Used: 95, Total: 100, Free: 5, Percentage: 95}
	snap := m.compose(mem, SampleCPU(), RemoteStatus{Status: RemoteConnected}, 3, nil)

	if snap.Status != StatusDegraded {
		t.Errorf("expected degraded, got %q", snap.Status)
	}
	found := false
	for _, e := range snap.Errors {
		if strings.Contains(e, "memory") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected high memory entry in errors, got %v", snap.Errors)
	}
}

func TestComposeDegradedOnSamplingFailure(t *testing.T) {
	m := NewMonitor()
	snap := m.compose(MemoryMetrics{}, SampleCPU(), RemoteStatus{Status: RemoteConnected}, 3,
		[]string{"memory sampling unavailable: metrics unavailable: memory"})

	if snap.Status != StatusDegraded {
		t.Errorf("expected degraded when a sub-probe failed, got %q", snap.Status)
	}
}

func TestRecordOutcomeCounters(t *testing.T) {
	m := NewMonitor()
	m.RecordOutcome(true, false)
	m.RecordOutcome(true, false)
	m.RecordOutcome(false, false)
	m.RecordOutcome(false, true)

	got := m.RequestMetrics()
	if got.Total != 4 {
		t.Errorf("expected total=4, got %d", got.Total)
	}
	if got.Success != 2 {
		t.Errorf("expected success=2, got %d", got.Success)
	}
	if got.Errors != 1 {
		t.Errorf("expected errors=1, got %d", got.Errors)
	}
	if got.RateLimited != 1 {
		t.Errorf("expected rateLimited=1, got %d", got.RateLimited)
	}
}

func TestRequestMetricsIsACopy(t *testing.T) {
	m := NewMonitor()
	m.RecordOutcome(true, false)

	copy1 := m.RequestMetrics()
	copy1.Total = 999

	if m.RequestMetrics().Total != 1 {
		t.Error("mutating the returned copy must not affect the monitor")
	}
}

func TestRecordOutcomeConcurrent(t *testing.T) {
	m := NewMonitor()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordOutcome(j%2 == 0, false)
			}
		}()
	}
	wg.Wait()

	got := m.RequestMetrics()
	if got.Total != 800 {
		t.Errorf("expected total=800, got %d", got.Total)
	}
	if got.Success+got.Errors != 800 {
		t.Errorf("expected success+errors=800, got %d", got.Success+got.Errors)
	}
}

func TestSnapshotIncludesRequestMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordOutcome(true, false)
	snap := m.GetSnapshot(context.Background(), nil, 0)
	if snap.Requests.Total != 1 {
		t.Errorf("expected request counters in snapshot, got %+v", snap.Requests)
	}
}
