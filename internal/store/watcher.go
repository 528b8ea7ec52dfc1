package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig starts an fsnotify watcher on the data directory and invokes
// cb whenever config.json is (re)written, until ctx is cancelled. Editors
// and the settings UI often produce bursts of events for a single save, so
// callbacks are debounced.
//
// This is how settings edits made by an external settings surface become
// visible to a running process without a restart.
func WatchConfig(ctx context.Context, dataDir string, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}
	logger.Info("config watcher: started", slog.String("dir", dataDir))

	var fireTimer *time.Timer
	var fireCh <-chan time.Time

	schedule := func() {
		if fireTimer == nil {
			fireTimer = time.NewTimer(200 * time.Millisecond)
			fireCh = fireTimer.C
		} else {
			fireTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if fireTimer != nil {
				fireTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-fireCh:
			logger.Debug("config watcher: settings changed")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != ConfigFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: error", slog.String("error", werr.Error()))
		}
	}
}
