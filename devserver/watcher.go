package devserver

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches source directories and fires a callback after file
// changes settle. Events arriving within the debounce window collapse into
// one callback, so an editor save burst triggers a single rebuild.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the given directories and all their
// subdirectories. Directories that do not exist are skipped; files and
// directories whose names start with "." or "_" are ignored.
func NewWatcher(dirs []string, debounce time.Duration, onChange func(), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logger.Debug("skipping missing watch dir", "dir", dir)
			continue
		}
		if err := w.addTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start launches the event loop in a goroutine. Returns immediately; the
// loop exits and the underlying watcher closes when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.ignore(event) {
				continue
			}
			// New directories need their own watch before their
			// contents produce events.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			w.logger.Debug("source changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			w.onChange()
		}
	}
}

func (w *Watcher) ignore(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	return hiddenName(filepath.Base(event.Name))
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hiddenName(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
