// Package watch re-runs a callback when graph files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rlch/graphsel/graphfile"
)

// debounce coalesces editors that write a file in several steps.
const debounce = 100 * time.Millisecond

// Watch calls fn whenever a graph file under paths is written or created.
// Directories are watched recursively. fn returns the paths the rebuild read
// from, and any not yet watched are added, so files pulled in by includes
// are followed as they appear. Watch returns nil once ctx is done.
func Watch(ctx context.Context, logger *zap.Logger, paths []string, fn func() ([]string, error)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))

	for _, p := range paths {
		err := add(watcher, p)
		if err != nil {
			return err
		}

		watched[p] = true
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = add(watcher, event.Name)

					continue
				}
			}

			if !graphfile.IsGraphFile(event.Name) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug("Graph file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			if timer != nil {
				timer.Stop()
			}

			timer = time.NewTimer(debounce)
			trigger = timer.C
		case <-trigger:
			trigger = nil

			read, err := fn()
			if err != nil {
				logger.Warn("Rebuild failed", zap.Error(err))

				continue
			}

			for _, p := range read {
				if watched[p] {
					continue
				}

				if err := add(watcher, p); err != nil {
					logger.Warn("Cannot watch path", zap.String("path", p), zap.Error(err))

					continue
				}

				watched[p] = true
				logger.Debug("Watching path", zap.String("path", p))
			}

			logger.Debug("Rebuild complete")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// add watches path. Files are watched through their directory so editors
// that replace the file are still seen.
func add(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return watcher.Add(p)
		}

		return nil
	})
}
