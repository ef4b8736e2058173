// Package watch reports documents that appear or change in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"docsum/internal/domain"
)

// DefaultSettle is how long a file must stay quiet before it is handled.
const DefaultSettle = 500 * time.Millisecond

// Handler processes one settled document.
type Handler func(ctx context.Context, path string) error

// Watcher hands supported documents created or written in a directory to a
// handler, one at a time, once they stop changing.
type Watcher struct {
	dir     string
	handler Handler
	settle  time.Duration
	log     *slog.Logger
	watcher *fsnotify.Watcher
	pending map[string]time.Time
}

// New creates a watcher on dir. The directory is not watched recursively.
func New(dir string, handler Handler, settle time.Duration, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = slog.Default()
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		settle:  settle,
		log:     log,
		watcher: fw,
		pending: make(map[string]time.Time),
	}, nil
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "watching directory", "dir", w.dir)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoContext(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !domain.IsSupported(event.Name) {
				w.log.DebugContext(ctx, "ignoring file", "path", event.Name)
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.ErrorContext(ctx, "watcher error", "error", err)

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

// flush handles every pending file that has been quiet for the settle period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		delete(w.pending, path)
		if ctx.Err() != nil {
			return
		}
		w.log.InfoContext(ctx, "document changed", "path", path)
		if err := w.handler(ctx, path); err != nil {
			w.log.ErrorContext(ctx, "failed to process document",
				"path", path,
				"error", err,
			)
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
