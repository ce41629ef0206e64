package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher keeps a live copy of the configuration file, reloading it when
// the file is written, created, or replaced.
type Watcher struct {
	path     string
	current  atomic.Pointer[Config]
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher starts from initial and tracks path. An empty path resolves to
// the default location; if that is unknown too, nothing is watched.
func NewWatcher(path string, initial *Config, logger *slog.Logger) *Watcher {
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	if initial == nil {
		initial = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		path:     path,
		logger:   logger,
		debounce: reloadDebounce,
	}
	w.current.Store(initial)
	return w
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// Run watches for file changes and reloads. Blocks until ctx is cancelled.
// The parent directory is watched so editors that replace the file are seen.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		w.logger.Debug("config_watch_skipped", "reason", "no config path")
		<-ctx.Done()
		return nil
	}

	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		w.logger.Debug("config_watch_skipped", "dir", dir, "err", err)
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(w.debounce, func() {
					if err := w.Reload(); err != nil {
						w.logger.Warn("config_reload_failed", "path", w.path, "err", err)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config_watch_error", "err", err)
		}
	}
}

// Reload re-reads the file. On error the previous configuration stays active.
func (w *Watcher) Reload() error {
	if w.path == "" {
		return nil
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.current.Store(DefaultConfig())
			w.logger.Info("config_reset_to_defaults", "path", w.path)
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return err
	}
	w.current.Store(cfg)
	w.logger.Info("config_reloaded",
		"path", w.path,
		"enabled", cfg.Display.Enabled,
		"detailed", cfg.Display.Detailed,
	)
	return nil
}
