package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

const defaultWatchDebounce = 300 * time.Millisecond

// sourceWatcher reports changes to files matching fixture source patterns.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	logger   dbseed.Logger
	debounce time.Duration
}

// newSourceWatcher watches the static base directory of every pattern.
// Patterns containing "**" watch the whole tree below their base.
func newSourceWatcher(patterns []string, logger dbseed.Logger) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &sourceWatcher{watcher: watcher, logger: logger, debounce: defaultWatchDebounce}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		w.patterns = append(w.patterns, pattern)

		base, _ := doublestar.SplitPattern(pattern)
		if err := w.addDir(filepath.FromSlash(base), strings.Contains(pattern, "**")); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *sourceWatcher) addDir(dir string, recursive bool) error {
	if !recursive {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Verbose("Watching %s", dir)
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.logger.Verbose("Watching %s", path)
		return nil
	})
}

// matches reports whether name is covered by any watched pattern.
func (w *sourceWatcher) matches(name string) bool {
	name = filepath.ToSlash(filepath.Clean(name))
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.Match(pattern, name); ok && !filesystem.IsHiddenMatch(pattern, name) {
			return true
		}
	}
	return false
}

// Run calls onChange once per burst of matching events until ctx is done.
func (w *sourceWatcher) Run(ctx context.Context, onChange func()) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.recursive() {
					if err := w.addDir(event.Name, true); err != nil {
						w.logger.Error("%v", err)
					}
				}
			}
			if event.Has(fsnotify.Chmod) || !w.matches(event.Name) {
				continue
			}
			w.logger.Verbose("%s: %s", event.Op, event.Name)
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error: %v", err)
		}
	}
}

func (w *sourceWatcher) recursive() bool {
	for _, p := range w.patterns {
		if strings.Contains(p, "**") {
			return true
		}
	}
	return false
}

func (w *sourceWatcher) Close() error {
	return w.watcher.Close()
}
