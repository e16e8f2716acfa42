package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Watcher polls the catalog directory and calls onChange when default.yaml
// or any zones/*.yaml file is modified, added or removed.
type Watcher struct {
	paths    Paths
	interval time.Duration
	onChange func(path string)

	stopOnce  sync.Once
	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewWatcher creates a watcher for the loader's layout.
func NewWatcher(paths Paths, interval time.Duration, onChange func(string)) *Watcher {
	return &Watcher{
		paths:     paths,
		interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *Watcher) Start() {
	// prime before returning so edits made right after Start are seen
	w.scan(true)
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) files() []string {
	files := []string{w.paths.DefaultPath()}
	zones, _ := filepath.Glob(filepath.Join(w.paths.ZonesDir(), "*.yaml"))
	return append(files, zones...)
}

// scan compares mtimes with the last pass and reports every difference.
func (w *Watcher) scan(prime bool) {
	seen := make(map[string]bool)
	for _, p := range w.files() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime {
			continue
		}
		if !ok || !mt.Equal(last) {
			w.notify(p)
		}
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			if !prime {
				w.notify(p)
			}
		}
	}
}

func (w *Watcher) notify(p string) {
	if w.onChange != nil {
		w.onChange(p)
	}
}
