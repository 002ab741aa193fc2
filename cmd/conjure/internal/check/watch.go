package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/broady/conjure/cmd/conjure/internal/inputs"
)

// watcher reports changes to source files in the directories of a set of
// inputs. Directories are watched rather than files so that editors that
// save by renaming are seen.
type watcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger

	// delay coalesces bursts of events into one callback.
	delay time.Duration
}

func newWatcher(paths []string, logger *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if dir, err = filepath.Abs(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("absolute path: %w", err)
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch directory: %w", err)
		}
		logger.Info("watching for changes", slog.String("dir", dir))
	}
	return &watcher{fs: fw, logger: logger, delay: 100 * time.Millisecond}, nil
}

// Run calls fn once after each burst of source file changes, until ctx is
// done or the watcher is closed.
func (w *watcher) Run(ctx context.Context, fn func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !inputs.IsSource(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("source changed", slog.String("event", event.Op.String()), slog.String("file", event.Name))
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fn()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", slog.Any("error", err))

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *watcher) Close() error { return w.fs.Close() }
