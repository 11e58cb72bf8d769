package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events one save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watch calls onChange after the file at path is written, replaced or
// removed, until ctx is done. The parent directory is watched so that
// atomic replacements are seen. Events within debounce of each other
// produce a single call.
func Watch(ctx context.Context, path string, debounce time.Duration, l Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				fire = time.After(debounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if l != nil {
					l.Errorf("settings", "watch error: %v", err)
				}
			case <-fire:
				fire = nil
				onChange()
			}
		}
	}()
	return nil
}
