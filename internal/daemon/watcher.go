package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher reports settled media files appearing in the videos directory.
// Events are debounced so a file still being written is not picked up until
// writes stop for the debounce window.
type watcher struct {
	dir          string
	extensions   map[string]struct{}
	notify       *fsnotify.Watcher
	logger       *slog.Logger
	debounceTime time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

func newWatcher(dir string, extensions []string, logger *slog.Logger) (*watcher, error) {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		set[normalized] = struct{}{}
	}

	return &watcher{
		dir:          dir,
		extensions:   set,
		notify:       notify,
		logger:       logger,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]time.Time),
	}, nil
}

// watch emits absolute paths of settled files until ctx is cancelled.
func (w *watcher) watch(ctx context.Context) (<-chan string, error) {
	if err := w.notify.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	// processPending is the sole sender on files and closes it when done;
	// processEvents only feeds the pending map.
	files := make(chan string, 64)
	go w.processEvents(ctx)
	go func() {
		defer close(files)
		w.processPending(ctx, files)
	}()
	return files, nil
}

func (w *watcher) processEvents(ctx context.Context) {
	defer w.notify.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.notify.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			if !w.matchesExtension(event.Name) {
				continue
			}

			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *watcher) processPending(ctx context.Context, files chan<- string) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushSettled(ctx, files)
		}
	}
}

func (w *watcher) flushSettled(ctx context.Context, files chan<- string) {
	w.mu.Lock()
	var ready []string
	now := time.Now()
	for path, touchedAt := range w.pending {
		if now.Sub(touchedAt) < w.debounceTime {
			continue
		}
		delete(w.pending, path)
		ready = append(ready, path)
	}
	w.mu.Unlock()

	for _, path := range ready {
		select {
		case files <- path:
		case <-ctx.Done():
			return
		}
	}
}

func (w *watcher) matchesExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := w.extensions[ext]
	return ok
}
