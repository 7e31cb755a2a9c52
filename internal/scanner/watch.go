package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"menu-audit/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is handed on.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports new or changed files in an inbox. Editors and copy tools
// write a workbook in several steps, so events are collected and flushed
// after a quiet period.
type Watcher struct {
	dir      string
	accept   func(rel string) bool
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
	hashes  map[string]string
}

// NewWatcher watches dir and its subdirectories. accept filters paths
// relative to dir; nil accepts everything.
func NewWatcher(dir string, accept func(rel string) bool, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		accept:   accept,
		debounce: debounce,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
		hashes:   make(map[string]string),
	}, nil
}

// Run watches until ctx is done, calling handle once per settled file, one
// file at a time. A file whose content did not change since the last call is
// not handed on again.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	defer w.fsw.Close()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.addRecursive(w.dir); err != nil {
		return err
	}
	logger.Info("Watching %s", w.dir)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error: %v", err)

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				if ctx.Err() != nil {
					return nil
				}
				if w.changed(path) {
					handle(path)
				}
			}
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if base := d.Name(); path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Warn("Failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addRecursive(event.Name); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
			}
		}
		return
	}

	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil || !w.accept(filepath.ToSlash(rel)) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
	logger.Debug("Change detected: %s (%s)", rel, event.Op)
}

// settled removes and returns the pending paths quiet for at least the
// debounce delay, sorted.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(out)
	return out
}

func (w *Watcher) changed(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return false
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hashes[path] == hash {
		return false
	}
	w.hashes[path] = hash
	return true
}
