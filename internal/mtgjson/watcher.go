package mtgjson

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of write events emitted while the data
// file is being replaced.
const debounceDelay = 2 * time.Second

// Watcher monitors the AllPrintings data file and invokes a callback after
// it has been rewritten. The callback receives the freshly parsed data, so
// callers can rebuild their snapshot and swap it atomically.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onReload func(*AllPrintings)
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the data file at path. onReload is called
// with the reparsed data after each stable change.
func NewWatcher(path string, logger *slog.Logger, onReload func(*AllPrintings)) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		logger:   logger,
		onReload: onReload,
		stopChan: make(chan struct{}),
	}
}

// Start watches the data file until the context is cancelled or Stop is
// called. It blocks; run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file itself: the downloader
	// replaces the file by rename, which would drop a direct file watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch data directory: %w", err)
	}

	w.logger.Info("watching data file for changes", "path", w.path)

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopChan:
			return nil
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				debounce.Reset(debounceDelay)
			}
			debounceC = debounce.C
		case <-debounceC:
			debounceC = nil
			w.reload()
		case err := <-watcher.Errors:
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

func (w *Watcher) reload() {
	w.logger.Info("data file changed, reloading", "path", w.path)

	all, err := LoadFile(w.path)
	if err != nil {
		// Keep serving the previous snapshot on a bad file.
		w.logger.Error("failed to reload data file", "path", w.path, "error", err)
		return
	}

	w.onReload(all)
	w.logger.Info("data file reloaded", "sets", len(all.Data))
}
