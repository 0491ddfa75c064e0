// Package watch reports changes under a repository's git directory.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gittergraph/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

// DefaultIgnore lists paths, relative to the git directory, whose changes
// never affect commits or references.
var DefaultIgnore = []string{
	"**/*.lock",
	"**/*.ipc",
	"index",
	"objects/**",
	"logs/**",
}

const refsDir = "refs"

type Watcher struct {
	gitDir string
	ignore []string

	fsw      *fsnotify.Watcher
	debounce *debounce.Debouncer
	wg       sync.WaitGroup
}

// New watches gitDir and every directory below its refs. onChange runs on a
// timer goroutine once events have settled for delay.
func New(gitDir string, delay time.Duration, ignore []string, onChange func()) (*Watcher, error) {
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for path := range watchPaths(gitDir) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &Watcher{
		gitDir:   gitDir,
		ignore:   ignore,
		fsw:      fsw,
		debounce: debounce.New(delay, onChange),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops watching. onChange is not called after Close returns.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	w.debounce.Stop()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.gitDir, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if shouldIgnore(w.ignore, rel) {
		return
	}
	// New ref namespaces (refs/heads/feature/...) show up as directories.
	if ev.Has(fsnotify.Create) && isDir(ev.Name) {
		if err := w.fsw.Add(ev.Name); err != nil {
			slog.Warn("watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
		}
	}
	slog.Debug("fsnotify event",
		slog.String("op", ev.Op.String()),
		slog.String("path", rel),
	)
	w.debounce.Trigger()
}

func watchPaths(gitDir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(gitDir) {
			return
		}
		err := filepath.WalkDir(filepath.Join(gitDir, refsDir), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("walk refs", slog.String("path", gitDir), slog.Any("error", err))
		}
	}
}

func shouldIgnore(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
