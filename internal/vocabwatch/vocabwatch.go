// internal/vocabwatch/vocabwatch.go

// Package vocabwatch re-publishes a local vocabulary file whenever it changes on disk.
package vocabwatch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mwiater/hedlab/internal/logging"
)

// DefaultDebounce collapses the burst of events editors emit for a single save.
const DefaultDebounce = 300 * time.Millisecond

// Handler receives the file content after each settled change.
type Handler func(ctx context.Context, content string) error

// Watcher follows a single file. The parent directory is watched so that editors
// which save by renaming a temporary file are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	last     []byte
}

// New starts watching path. Call Run to process events and Close when done.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: abs, debounce: debounce, watcher: fw}, nil
}

// Seed records content as already published so that an unchanged file is not sent again.
func (w *Watcher) Seed(content []byte) {
	w.last = append([]byte(nil), content...)
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is cancelled, calling handle once per settled change. Handler
// errors are logged and the watch continues.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.LogEvent("vocabwatch: %v", err)
		case <-timer.C:
			w.publish(ctx, handle)
		}
	}
}

func (w *Watcher) publish(ctx context.Context, handle Handler) {
	content, err := os.ReadFile(w.path)
	if err != nil {
		logging.LogEvent("vocabwatch: read %s: %v", w.path, err)
		return
	}
	if w.last != nil && bytes.Equal(content, w.last) {
		return
	}
	if err := handle(ctx, string(content)); err != nil {
		logging.LogEvent("vocabwatch: publish %s: %v", w.path, err)
		return
	}
	w.last = content
}
