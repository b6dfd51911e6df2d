// Package watch re-runs changelog generation when a repository's HEAD,
// branches or tags move.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/amoutonbrady/changemoji/internal/logging"
	"github.com/fsnotify/fsnotify"
)

var errWatcherClosed = errors.New("watcher closed")

// OnChange is called once per settled burst of ref changes.
type OnChange func(ctx context.Context) error

// RefWatcher watches the ref files of a git directory using fsnotify.
type RefWatcher struct {
	gitDir   string
	refsDir  string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// NewRefWatcher watches gitDir (HEAD, packed-refs) and every directory
// under gitDir/refs/heads and gitDir/refs/tags.
func NewRefWatcher(gitDir string, debounce time.Duration, logger *slog.Logger) (*RefWatcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &RefWatcher{
		gitDir:   filepath.Clean(gitDir),
		refsDir:  filepath.Join(filepath.Clean(gitDir), "refs"),
		debounce: debounce,
		logger:   logger,
		watcher:  watcher,
	}

	if err := watcher.Add(w.gitDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", w.gitDir, err)
	}
	for _, sub := range []string{"heads", "tags"} {
		if err := w.addTree(filepath.Join(w.refsDir, sub)); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches dir and its subdirectories (refs like heads/feature/x nest).
// A missing dir is skipped.
func (w *RefWatcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching refs: %w", err)
	}
	return nil
}

// WatchList returns the watched directories.
func (w *RefWatcher) WatchList() []string {
	return w.watcher.WatchList()
}

// Run blocks until ctx is cancelled, calling onChange after each burst of
// ref changes has been quiet for the debounce interval. Errors from onChange
// are logged and watching continues.
func (w *RefWatcher) Run(ctx context.Context, onChange OnChange) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errWatcherClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.trackNewDir(event)
			w.logger.Debug("ref changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				w.logger.Error("regeneration failed", slog.Any("error", err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errWatcherClosed
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// relevant reports whether event may have moved HEAD, a branch or a tag.
// Lock files written by git before the rename are ignored.
func (w *RefWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || strings.HasSuffix(event.Name, ".lock") {
		return false
	}

	name := filepath.Clean(event.Name)
	if filepath.Dir(name) == w.gitDir {
		base := filepath.Base(name)
		return base == "HEAD" || base == "packed-refs"
	}
	return strings.HasPrefix(name, w.refsDir+string(filepath.Separator))
}

func (w *RefWatcher) trackNewDir(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(event.Name); err != nil {
		w.logger.Warn("cannot watch new ref directory", slog.String("path", event.Name), slog.Any("error", err))
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *RefWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
