package graphfile

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
)

// IsGraphFile reports whether path names a graph file.
func IsGraphFile(path string) bool {
	return strings.HasSuffix(path, ".graph.yaml") || strings.HasSuffix(path, ".graph.yml")
}

// Discover returns the graph files under dir in sorted order. Files excluded
// by .gitignore or .ignore are skipped.
func Discover(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(dir, fileListQueue)
	fileWalker.AllowListExtensions = []string{"yaml", "yml"}

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		wg    sync.WaitGroup
		paths []string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			if IsGraphFile(f.Location) {
				paths = append(paths, f.Location)
			}
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}

	slices.Sort(paths)

	return paths, nil
}
