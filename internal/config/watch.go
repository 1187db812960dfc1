package config

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/logger"
)

// FileWatcher polls a file's modification time and calls onChange from its
// own goroutine when the file changes. Consumers hand the event over to the
// frame loop rather than touching live state from the callback.
type FileWatcher struct {
	path     string
	interval time.Duration
	onChange func(path string)

	lastMTime time.Time
	started   bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		path:     path,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start records the current modification time and begins polling.
func (w *FileWatcher) Start() {
	w.lastMTime = w.modTime()
	w.started = true
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan()
			case <-w.stopCh:
				return
			}
		}
	}()
	logger.Debug("watching config", zap.String("path", w.path), zap.Duration("interval", w.interval))
}

// Stop terminates polling and waits for the goroutine to exit. It is safe
// to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started {
			<-w.doneCh
		}
	})
}

func (w *FileWatcher) modTime() time.Time {
	fi, err := os.Stat(w.path)
	if err != nil {
		// A missing file keeps the last known time; it is picked up again
		// once it reappears with a newer mtime.
		return time.Time{}
	}
	return fi.ModTime()
}

func (w *FileWatcher) scan() {
	mt := w.modTime()
	if mt.IsZero() || !mt.After(w.lastMTime) {
		return
	}
	w.lastMTime = mt
	logger.Info("config changed on disk", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(w.path)
	}
}
