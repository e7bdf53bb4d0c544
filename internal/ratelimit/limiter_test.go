package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultsApplied(t *testing.T) {
	l := New(Limits{})
	if l.limits.Global != DefaultGlobalLimit {
		t.Errorf("expected global default %d, got %d", DefaultGlobalLimit, l.limits.Global)
	}
	if l.limits.DefaultOperation != DefaultOperationLimit {
		t.Errorf("expected per-op default %d, got %d", DefaultOperationLimit, l.limits.DefaultOperation)
	}
	if l.limits.Window != DefaultWindow {
		t.Errorf("expected window default %s, got %s", DefaultWindow, l.limits.Window)
	}
}

func TestConsumeWithinLimit(t *testing.T) {
	l := New(Limits{Global: 10, DefaultOperation: 5, Window: time.Minute})
	now := time.Now()

	for i := 0; i < 5; i++ {
		if err := l.CheckAndConsume("issues_list", now); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	global, perOp := l.Usage()
	if global != 5 {
		t.Errorf("expected global=5, got %d", global)
	}
	if perOp["issues_list"] != 5 {
		t.Errorf("expected issues_list=5, got %d", perOp["issues_list"])
	}
}

func TestOperationLimitExceeded(t *testing.T) {
	l := New(Limits{Global: 100, DefaultOperation: 3, Window: time.Minute})
	now := time.Now()

	for i := 0; i < 3; i++ {
		if err := l.CheckAndConsume("issues_create", now); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	err := l.CheckAndConsume("issues_create", now)
	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LimitError, got %v", err)
	}
	if le.Scope != ScopeOperation {
		t.Errorf("expected operation scope, got %s", le.Scope)
	}
	if le.Operation != "issues_create" {
		t.Errorf("expected operation name in error, got %q", le.Operation)
	}

	// A failed check must not consume anything.
	global, perOp := l.Usage()
	if global != 3 {
		t.Errorf("expected global=3 after rejection, got %d", global)
	}
	if perOp["issues_create"] != 3 {
		t.Errorf("expected issues_create=3 after rejection, got %d", perOp["issues_create"])
	}
}

func TestGlobalLimitExceeded(t *testing.T) {
	l := New(Limits{Global: 4, DefaultOperation: 10, Window: time.Minute})
	now := time.Now()

	ops := []string{"issues_list", "issues_get", "issues_list", "issues_get"}
	for i, op := range ops {
		if err := l.CheckAndConsume(op, now); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	err := l.CheckAndConsume("issues_update", now)
	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LimitError, got %v", err)
	}
	if le.Scope != ScopeGlobal {
		t.Errorf("expected global scope, got %s", le.Scope)
	}

	global, perOp := l.Usage()
	if global != 4 {
		t.Errorf("expected global=4 after rejection, got %d", global)
	}
	if perOp["issues_update"] != 0 {
		t.Errorf("expected issues_update=0 after rejection, got %d", perOp["issues_update"])
	}
}

func TestGlobalCheckedBeforeOperation(t *testing.T) {
	// With both budgets spent, the global scope wins.
	l := New(Limits{Global: 1, DefaultOperation: 1, Window: time.Minute})
	now := time.Now()

	if err := l.CheckAndConsume("issues_list", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := l.CheckAndConsume("issues_list", now)
	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LimitError, got %v", err)
	}
	if le.Scope != ScopeGlobal {
		t.Errorf("expected global scope to be reported first, got %s", le.Scope)
	}
}

func TestPerOperationOverride(t *testing.T) {
	l := New(Limits{
		Global:           100,
		DefaultOperation: 50,
		PerOperation:     map[string]int{"issues_create": 1},
		Window:           time.Minute,
	})
	now := time.Now()

	if err := l.CheckAndConsume("issues_create", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.CheckAndConsume("issues_create", now); err == nil {
		t.Fatal("expected configured limit (1) to apply, not default (50)")
	}

	// Unlisted operations still use the default.
	if err := l.CheckAndConsume("issues_list", now); err != nil {
		t.Errorf("unexpected error for unlisted operation: %v", err)
	}
}

func TestUnknownOperationUsesDefault(t *testing.T) {
	l := New(Limits{Global: 100, DefaultOperation: 2, Window: time.Minute})
	now := time.Now()

	if err := l.CheckAndConsume("never_seen", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.CheckAndConsume("never_seen", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.CheckAndConsume("never_seen", now); err == nil {
		t.Error("expected default limit to apply to unknown operation")
	}
}

func TestWindowExpiryResetsAllBuckets(t *testing.T) {
	l := New(Limits{Global: 100, DefaultOperation: 2, Window: time.Minute})
	now := time.Now()

	// Spend two independent operation budgets.
	for i := 0; i < 2; i++ {
		if err := l.CheckAndConsume("issues_list", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := l.CheckAndConsume("issues_get", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := l.CheckAndConsume("issues_list", now); err == nil {
		t.Fatal("expected issues_list to be limited")
	}

	// Advancing past the window refreshes every bucket at once, not just
	// the one that was touched.
	later := now.Add(2 * time.Minute)
	if err := l.CheckAndConsume("issues_list", later); err != nil {
		t.Errorf("expected issues_list budget refreshed: %v", err)
	}

	global, perOp := l.Usage()
	if global != 1 {
		t.Errorf("expected global=1 after reset, got %d", global)
	}
	if perOp["issues_get"] != 0 {
		t.Errorf("expected issues_get wiped by shared reset, got %d", perOp["issues_get"])
	}
}

func TestExactWindowBoundaryResets(t *testing.T) {
	l := New(Limits{Global: 100, DefaultOperation: 1, Window: time.Minute})
	now := time.Now()

	if err := l.CheckAndConsume("issues_list", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// now - windowStart >= window resets, so exactly one window later is fresh.
	if err := l.CheckAndConsume("issues_list", now.Add(time.Minute)); err != nil {
		t.Errorf("expected reset at exact boundary: %v", err)
	}
}

func TestReset(t *testing.T) {
	l := New(Limits{Global: 100, DefaultOperation: 1, Window: time.Minute})
	now := time.Now()

	if err := l.CheckAndConsume("issues_list", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Reset(now)

	if err := l.CheckAndConsume("issues_list", now); err != nil {
		t.Errorf("expected fresh budget after Reset: %v", err)
	}
}

func TestConcurrentConsume(t *testing.T) {
	l := New(Limits{Global: 1000, DefaultOperation: 1000, Window: time.Minute})
	now := time.Now()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_ = l.CheckAndConsume("issues_list", now)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	global, perOp := l.Usage()
	if global != 400 {
		t.Errorf("expected global=400, got %d", global)
	}
	if perOp["issues_list"] != 400 {
		t.Errorf("expected issues_list=400, got %d", perOp["issues_list"])
	}
}
