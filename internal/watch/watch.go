// Package watch re-runs the analysis when C sources change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"codex/internal/driver"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Handler receives the sorted, de-duplicated set of changed files.
// A non-nil error stops Run.
type Handler func(ctx context.Context, changed []string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Filter   driver.FileFilter
	Logger   *log.Logger
}

// Watcher follows directories recursively and explicitly named files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	opts   Options
	files  map[string]struct{} // явно указанные файлы
	dirs   map[string]bool
	logger *log.Logger
}

// New starts watching paths. Directories are added with all their
// non-hidden, non-excluded subdirectories; a file is watched through its
// parent directory.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, opts: opts, files: make(map[string]struct{}), dirs: make(map[string]bool), logger: logger}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %q: %w", path, err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = struct{}{}
		return w.fsw.Add(filepath.Dir(path))
	}
	return w.addTree(path)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// каталог мог исчезнуть между событием и обходом
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("cannot watch %q: %w", path, err)
		}
		w.dirs[filepath.Clean(path)] = true
		return nil
	})
}

func (w *Watcher) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || w.opts.Filter.Excluded(name)
}

// Watched returns the directories currently registered.
func (w *Watcher) Watched() []string {
	list := w.fsw.WatchList()
	slices.Sort(list)
	return list
}

// relevant reports whether a change to path should trigger a run.
func (w *Watcher) relevant(path string) bool {
	clean := filepath.Clean(path)
	if _, ok := w.files[clean]; ok {
		return true
	}
	if !w.dirs[filepath.Dir(clean)] {
		// каталог наблюдается только ради явно указанного файла
		return false
	}
	return w.opts.Filter.Match(filepath.Base(clean))
}

// Run delivers batches of changed files to handle until ctx is cancelled.
// Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		slices.Sort(changed)
		return handle(ctx, changed)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !w.skipDir(filepath.Base(ev.Name)) {
						if err := w.addTree(ev.Name); err != nil {
							w.logger.Warn("cannot watch new directory", "dir", ev.Name, "err", err)
						}
					}
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !w.relevant(ev.Name) {
				continue
			}
			w.logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			pending[filepath.Clean(ev.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "err", err)
		case <-fire:
			fire = nil
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
