package session

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/logger"

	"github.com/fsnotify/fsnotify"
)

// ignoredDirs are directory names never watched or synced.
var ignoredDirs = []string{".git", ".hg", ".svn", "node_modules", "__pycache__", ".idea", ".vscode"}

// SyncHandler observes the outcome of every watcher-triggered sync.
type SyncHandler func(path string, res *OpResult, err error)

// Watcher drives background persistence: it follows write events under
// the workspace and, once a file has been quiet for the debounce window,
// syncs it through the manager. Each file debounces independently so a
// busy file cannot starve a quiet one.
type Watcher struct {
	manager  *Manager
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	handler  SyncHandler

	mu     sync.Mutex
	timers map[string]*time.Timer

	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher over root. The handler may be nil.
func NewWatcher(m *Manager, root string, debounce time.Duration, handler SyncHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		manager:  m,
		fsw:      fsw,
		root:     abs,
		debounce: debounce,
		handler:  handler,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start registers the workspace tree and begins processing events. It
// returns once watching is up; cancellation of ctx stops it.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	logger.WatchInfo("Watching %s (debounce %s)", w.root, w.debounce)
	go w.processEvents(ctx)
	return nil
}

// Stop halts event processing and cancels all pending syncs.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
		w.mu.Lock()
		for path, t := range w.timers {
			t.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.WatchError("Failed to watch %s: %v", path, err)
		}
		return nil
	})
}

// ignored reports paths the watcher must never act on: VCS and tool
// directories, the record store itself, and the session state file.
func (w *Watcher) ignored(path string) bool {
	if dir := w.manager.Store().Dir(); dir != "" && strings.HasPrefix(path, dir) {
		return true
	}
	if w.manager.statePath != "" && path == w.manager.statePath {
		return true
	}
	base := filepath.Base(path)
	for _, name := range ignoredDirs {
		if base == name {
			return true
		}
	}
	return false
}

// eligible reports whether a path is a document the engine can sync.
func (w *Watcher) eligible(path string) bool {
	if w.ignored(path) {
		return false
	}
	if strings.HasSuffix(path, "~") || strings.HasSuffix(path, ".swp") || strings.HasSuffix(path, ".tmp") {
		return false
	}
	return core.FileTypeForPath(path) != ""
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.WatchError("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.ignored(path) {
				if err := w.addRecursive(path); err != nil {
					logger.WatchError("Failed to watch new directory %s: %v", path, err)
				}
			}
			return
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if w.eligible(path) {
			logger.WatchInfo("Document removed, dropping session: %s", path)
			w.cancel(path)
			w.manager.Drop(path)
		}
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.eligible(path) {
		return
	}
	logger.WatchDebug("Change detected: %s (%s)", path, event.Op)
	w.schedule(path)
}

// schedule arms or re-arms the per-file debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.flush(path) })
}

// cancel drops a pending sync for path, if any.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// flush runs once a file has been quiet for the debounce window.
func (w *Watcher) flush(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	if w.manager.SyncSuppressed(path) {
		logger.WatchDebug("Skipping sync for %s: engine write in progress", path)
		return
	}
	res, err := w.manager.Sync(path, "")
	if err != nil {
		logger.WatchError("Background sync failed for %s: %v", path, err)
	} else {
		logger.WatchInfo("Synced %s (%s mode, %d matched, %d added)", path, res.Mode, res.Matched, res.Added)
	}
	if w.handler != nil {
		w.handler(path, res, err)
	}
}
