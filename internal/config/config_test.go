package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `baseUrl: https://tracker.example.com
credential: file-based-token
logLevel: warn
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected logLevel warn, got %q", cfg.LogLevel)
	}
	if cfg.RateLimit == nil || cfg.RateLimit.MaxRequests != DefaultRateRequests {
		t.Errorf("expected rateLimit defaulted, got %+v", cfg.RateLimit)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("baseUrl: nope\ncredential: x\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatcherRevalidatesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := "baseUrl: https://tracker.example.com\ncredential: initial-token\n"
	if err := os.WriteFile(path, []byte(initial), 0600); err != nil {
		t.Fatal(err)
	}

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, zap.NewNop(), func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher a moment to start, then rewrite the file.
	time.Sleep(100 * time.Millisecond)
	updated := "baseUrl: https://tracker.example.com\ncredential: updated-token\nlogLevel: debug\n"
	if err := os.WriteFile(path, []byte(updated), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changed:
		if cfg.LogLevel != "debug" {
			t.Errorf("expected reloaded logLevel debug, got %q", cfg.LogLevel)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
