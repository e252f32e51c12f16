// Package watcher notices changes to netplan documents on disk.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"netplan-parser/internal/loader"
	"netplan-parser/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches netplan directories for document changes
type Watcher struct {
	dirs     []string
	onChange func(path string)
	debounce time.Duration
	log      *logging.Logger
}

// New creates a watcher over dirs. onChange receives the last changed
// document once a burst of changes has settled.
func New(dirs []string, onChange func(path string)) *Watcher {
	return &Watcher{
		dirs:     dirs,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logging.WithComponent("watcher"),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch blocks until the context is cancelled or the underlying
// notifier fails. Directories that do not exist are skipped; at least
// one must be watchable.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	watched := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				w.log.Debug("Skipping missing directory", "dir", dir)
				continue
			}
			return err
		}
		watched++
		w.log.Info("Watching for changes", "dir", dir)
	}
	if watched == 0 {
		return errors.New("none of the netplan directories exist")
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			path := event.Name
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.log.Debug("Document changed", "path", path)
				w.onChange(path)
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// relevant reports whether event may change the parsed configuration.
// Removing or renaming a document counts as much as writing one.
func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(filepath.Base(event.Name), loader.Extension) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
