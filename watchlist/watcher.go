package watchlist

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultPollInterval is how often the watcher re-checks the file when no
// filesystem event arrived
const DefaultPollInterval = time.Second

// Watcher notifies store subscribers about changes written by other processes.
// It listens for filesystem events on the store directory and re-checks the
// file periodically as a fallback.
type Watcher struct {
	store    *Store
	interval time.Duration
	logger   zerolog.Logger
}

// NewWatcher creates a watcher for store
func NewWatcher(store *Store, interval time.Duration, logger zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	// Baseline, so the current content is not reported as a change.
	if data, err := w.store.readRaw(); err == nil {
		w.store.observe(data)
	}

	var events <-chan fsnotify.Event
	var errs <-chan error

	if fsw := w.startNotify(); fsw != nil {
		defer fsw.Close()
		events = fsw.Events
		errs = fsw.Errors
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(event.Name) == FileName {
				w.check()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn().Err(err).Msg("Watchlist file watcher error")
		case <-ticker.C:
			w.check()
		}
	}
}

// startNotify subscribes to filesystem events when the store lives on the OS
// filesystem. It returns nil when only polling is available.
func (w *Watcher) startNotify() *fsnotify.Watcher {
	if _, ok := w.store.fs.(*afero.OsFs); !ok {
		return nil
	}

	if err := w.store.fs.MkdirAll(w.store.dir, 0o755); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to create watchlist dir, falling back to polling")
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn().Err(err).Msg("Filesystem notifications unavailable, falling back to polling")
		return nil
	}

	if err := fsw.Add(w.store.dir); err != nil {
		fsw.Close()
		w.logger.Warn().Err(err).Str("dir", w.store.dir).Msg("Failed to watch watchlist dir, falling back to polling")
		return nil
	}

	w.logger.Debug().Str("dir", w.store.dir).Msg("Watching watchlist dir")
	return fsw
}

func (w *Watcher) check() {
	data, err := w.store.readRaw()
	if err != nil {
		w.logger.Debug().Err(err).Msg("Failed to re-read watchlist")
		return
	}
	if !w.store.observe(data) {
		return
	}

	items, err := Unmarshal(data)
	if err != nil {
		items = []Item{}
	}
	w.store.publish(Event{Type: EventChanged, Count: len(items)})
}
