// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bumodocs/internal/models"
)

// DefaultDebounce groups the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// ChangeHandler receives the docs written or removed by one debounced batch.
type ChangeHandler func(docs []models.Doc)

// Watcher re-imports doc files as they change on disk.
type Watcher struct {
	importer *Importer
	delay    time.Duration
	onChange ChangeHandler

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	batches chan []string
}

// NewWatcher creates a Watcher over the importer's root. onChange may be nil.
func NewWatcher(im *Importer, delay time.Duration, onChange ChangeHandler) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Watcher{
		importer: im,
		delay:    delay,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		batches:  make(chan []string, 16),
	}
}

// Run watches the docs tree until ctx is cancelled. All goroutines it
// starts have exited when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.importer.Root); err != nil {
		return err
	}
	slog.Info("watching docs", "root", w.importer.Root)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.process(ctx)
	}()
	defer wg.Wait()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("docs watcher error", "error", err)
		}
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fw, ev.Name); err != nil {
				slog.Error("watch new directory", "path", ev.Name, "error", err)
			}
			// Files written before the watch was added raise no events.
			_ = filepath.WalkDir(ev.Name, func(path string, d fs.DirEntry, err error) error {
				if err == nil && !d.IsDir() && IsDoc(path) {
					w.schedule(path)
				}
				return nil
			})
			return
		}
	}
	if !IsDoc(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	w.schedule(ev.Name)
}

// schedule records a changed path and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	select {
	case w.batches <- paths:
	default:
		slog.Warn("docs watcher backlog full, dropping batch", "paths", len(paths))
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case paths := <-w.batches:
			if docs := w.Sync(paths); len(docs) > 0 && w.onChange != nil {
				w.onChange(docs)
			}
		}
	}
}

// Sync imports each path, or removes its docs when the file is gone, and
// returns the docs that changed.
func (w *Watcher) Sync(paths []string) []models.Doc {
	var changed []models.Doc
	for _, path := range paths {
		doc, ok, err := w.importer.ImportFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			removed, err := w.importer.Remove(path)
			if err != nil {
				slog.Error("remove doc", "path", path, "error", err)
				continue
			}
			slog.Info("doc removed", "path", path, "docs", len(removed))
			changed = append(changed, removed...)
		case err != nil:
			slog.Error("reimport doc", "path", path, "error", err)
		case ok:
			slog.Info("doc reimported", "path", path, "key", doc.Key())
			changed = append(changed, *doc)
		}
	}
	return changed
}
