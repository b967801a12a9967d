// ABOUTME: Polling watcher that reloads the preset config when its file changes
// ABOUTME: Compares mtimes on a ticker; Run blocks until its context ends so it fits an errgroup

package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mauromedda/floatkit/internal/log"
)

// DefaultWatchInterval is the polling period of a new Watcher.
const DefaultWatchInterval = 2 * time.Second

// Watcher reloads a config file whenever its mtime changes and hands the
// result to onReload. A file that fails to load or validate is skipped.
type Watcher struct {
	path     string
	onReload func(*Config)
	interval time.Duration

	mu     sync.Mutex
	mtime  time.Time
	exists bool
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	w := &Watcher{path: path, onReload: onReload, interval: DefaultWatchInterval}
	w.snapshot()
	return w
}

// SetInterval overrides DefaultWatchInterval. Call it before Run.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Run polls until ctx is done and returns nil then.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check reloads now if the file changed since the last check and reports
// whether onReload was called.
func (w *Watcher) Check() bool {
	if !w.changed() {
		return false
	}
	w.snapshot()

	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.Warn("config reload of %s skipped: %v", w.path, err)
		return false
	}
	log.Info("config reloaded from %s", w.path)
	w.onReload(cfg)
	return true
}

func (w *Watcher) changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, err := os.Stat(w.path)
	if err != nil {
		// A removed file reverts to defaults on the next load.
		return w.exists
	}
	return !w.exists || !info.ModTime().Equal(w.mtime)
}

func (w *Watcher) snapshot() {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, err := os.Stat(w.path)
	if err != nil {
		w.exists = false
		w.mtime = time.Time{}
		return
	}
	w.exists = true
	w.mtime = info.ModTime()
}
