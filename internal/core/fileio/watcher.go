package fileio

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/colonyops/csword/internal/core/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher marks bindings stale when their file is removed or renamed.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu       sync.Mutex
	bindings map[string]*Binding // file path -> binding
	dirs     map[string]int      // directory -> watched files

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		log:      logging.Component("fileio"),
		bindings: make(map[string]*Binding),
		dirs:     make(map[string]int),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch starts tracking b. Bindings without a file system path are ignored.
// The parent directory is watched so that renames are seen.
func (w *Watcher) Watch(b *Binding) error {
	path, ok := pathOf(b.Handle())
	if !ok {
		return nil
	}
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.bindings[path]; exists {
		w.bindings[path] = b
		return nil
	}

	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.bindings[path] = b
	return nil
}

// Unwatch stops tracking b.
func (w *Watcher) Unwatch(b *Binding) {
	if b == nil {
		return
	}
	path, ok := pathOf(b.Handle())
	if !ok {
		return
	}
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bindings[path] != b {
		return
	}
	delete(w.bindings, path)

	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
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
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	b, ok := w.bindings[filepath.Clean(event.Name)]
	w.mu.Unlock()
	if !ok {
		return
	}

	b.MarkStale()
	w.log.Info().Str("file", event.Name).Str("op", event.Op.String()).Msg("bound file moved or removed")
}
