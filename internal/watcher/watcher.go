// Package watcher delivers debounced change notifications for files and
// directory trees.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange once per burst of filesystem events.
type Watcher struct {
	paths     []string
	recursive bool
	debounce  time.Duration
	filter    func(name string) bool
	onChange  func(ctx context.Context)

	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithRecursive watches every directory below the given paths, including
// directories created later.
func WithRecursive() Option { return func(w *Watcher) { w.recursive = true } }

// WithDebounce sets the quiet period that ends a burst of events.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithFilter restricts notifications to events whose path satisfies keep.
func WithFilter(keep func(name string) bool) Option { return func(w *Watcher) { w.filter = keep } }

// New creates a watcher for paths. Directories are watched directly; to follow
// a single file, watch its directory and filter on the file name.
func New(paths []string, onChange func(ctx context.Context), opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("watcher: no paths")
	}
	if onChange == nil {
		return nil, errors.New("watcher: nil change callback")
	}
	w := &Watcher{paths: paths, onChange: onChange, debounce: defaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the watches and begins delivering notifications until ctx
// is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return errors.New("watcher: already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	for _, p := range w.paths {
		if err := w.add(fsw, p); err != nil {
			_ = fsw.Close()
			return err
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.wg.Add(1)
	go w.loop(loopCtx, fsw)

	slog.Info("Watching for changes", slog.Any("paths", w.paths), slog.Bool("recursive", w.recursive))
	return nil
}

// Stop ends the watch and waits for the notification goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw, cancel := w.fsw, w.cancel
	w.fsw, w.cancel = nil, nil
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	cancel()
	err := fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) add(fsw *fsnotify.Watcher, root string) error {
	if !w.recursive {
		if err := fsw.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.filter != nil && !w.filter(ev.Name) {
				continue
			}
			if w.recursive && ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := w.add(fsw, ev.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
					}
				}
			}
			slog.Debug("Filesystem change", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}

// FileFilter returns a filter accepting only events for the file at path.
func FileFilter(path string) func(string) bool {
	base := filepath.Base(path)
	return func(name string) bool { return filepath.Base(name) == base }
}
