package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher revalidates a config file when it changes on disk. A change that
// fails validation is logged and dropped; the previously accepted config
// stays in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   *zap.Logger
	onChange func(*Config)
}

// NewWatcher creates a file watcher for the given config path. onChange is
// called with each newly validated config.
func NewWatcher(path string, logger *zap.Logger, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	return &Watcher{
		watcher:  fw,
		path:     path,
		logger:   logger,
		onChange: onChange,
	}, nil
}

// Run watches for file changes and revalidates. Blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Debounce: wait 500ms after the last write before revalidating.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config change rejected", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("config reloaded", zap.String("path", w.path))
	w.onChange(cfg)
}
