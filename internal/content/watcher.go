package content

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store hands out the current content. With a Watcher attached it is swapped
// whenever the file changes and still parses.
type Store struct {
	mu      sync.RWMutex
	current *Content
}

// NewStore wraps c.
func NewStore(c *Content) *Store {
	return &Store{current: c}
}

// Get returns the current content. Callers must not modify it.
func (s *Store) Get() *Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current content.
func (s *Store) Set(c *Content) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

// Watcher reloads a content file into a Store on write.
type Watcher struct {
	path    string
	store   *Store
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}
	done    chan struct{}
}

// NewWatcher watches path's directory so editors that save by rename are
// picked up too.
func NewWatcher(path string, store *Store, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create content watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{
		path:    path,
		store:   store,
		watcher: fw,
		logger:  logger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start runs the watch loop in the background.
func (w *Watcher) Start() {
	go w.loop()
	w.logger.Info("content watcher started", zap.String("path", w.path))
}

// Stop ends the watch loop and waits for it.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	var debounce *time.Timer
	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("content watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err != nil {
		w.logger.Error("content reload failed, keeping previous content", zap.Error(err))
		return
	}
	w.store.Set(c)
	w.logger.Info("content reloaded", zap.String("path", w.path))
}
