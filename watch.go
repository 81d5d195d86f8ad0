package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher repairs diagram files in place shortly after they are saved.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	logger      *zap.Logger
	dirs        []string
	config      *Config
	opts        batchOptions
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

type WatcherStats struct {
	Events        int
	Repaired      int // files rewritten
	Unchanged     int // settled files that needed nothing
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// NewWatcher watches dirs and their subdirectories. Files are matched by
// cfg.Watch.Extensions and repaired with opts; Write is forced on.
func NewWatcher(dirs []string, cfg *Config, opts batchOptions, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Write = true

	return &Watcher{
		watcher:     fw,
		logger:      logger,
		dirs:        dirs,
		config:      cfg,
		opts:        opts,
		debounceMap: make(map[string]time.Time),
		debounceDur: cfg.DebounceDuration(),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start adds the watched directories and returns; events are handled in
// the background until Stop or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		})
		if err != nil {
			w.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.logger.Info("watching directory", zap.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("failed to close watcher", zap.Error(err))
		}
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("failed to close watcher", zap.Error(err))
	}
	w.logger.Info("watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processDebouncedEvents()
		}
	}
}

func (w *Watcher) tickInterval() time.Duration {
	interval := w.debounceDur / 5
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	if interval > 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return interval
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !w.config.WatchesExtension(event.Name) {
		return
	}

	w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents repairs the files that have been quiet for the
// debounce window.
func (w *Watcher) processDebouncedEvents() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.repairSettled(path)
	}
}

// repairSettled rewrites path only when the repair changes it, so the
// watcher's own write settles without another rewrite.
func (w *Watcher) repairSettled(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	result := repairFile(path, w.opts)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case result.Err != nil:
		w.stats.Errors++
		w.logger.Error("failed to repair file", zap.String("path", path), zap.Error(result.Err))
	case result.Changed:
		w.stats.Repaired++
		w.logger.Info("repaired file", zap.String("path", path))
	default:
		w.stats.Unchanged++
	}
}

func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
