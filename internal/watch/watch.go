// Package watch re-runs a function whenever a file is written.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2wechat/internal/logging"
)

// DefaultDebounce groups the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatch is returned when the file cannot be watched.
var ErrWatch = errors.New("failed to watch file")

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   logging.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) { w.logger = logging.OrNoOp(l) }
}

// New creates a Watcher for path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{path: path, debounce: DefaultDebounce, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run calls onChange after each burst of writes to the file until ctx is
// done. The parent directory is watched so saves that replace the file are
// seen. Errors from onChange are logged and the loop continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWatch, abs, err)
	}
	w.logger.Info("watching", "path", abs)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err.Error())

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				w.logger.Error("re-render failed", "path", abs, "error", err.Error())
			}
		}
	}
}
