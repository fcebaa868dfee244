package graphfile

import (
	"fmt"
	"os"

	"github.com/rlch/graphsel"
)

// LoadGraph loads the graph at path. A directory loads every graph file
// found beneath it; a file loads itself and its includes.
func LoadGraph(path string) (*graphsel.Graph, error) {
	sources, err := LoadSources(path)
	if err != nil {
		return nil, err
	}

	return Merge(sources)
}

// LoadSources loads the graph files that make up the graph at path.
func LoadSources(path string) ([]*Source, error) {
	l := NewLoader()

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return l.LoadAll(path)
	}

	paths, err := Discover(path)
	if err != nil {
		return nil, fmt.Errorf("discovering graph files in %s: %w", path, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no graph files in %s", ErrGraphNotFound, path)
	}

	seen := make(map[string]bool)

	var sources []*Source

	for _, p := range paths {
		loaded, err := l.LoadAll(p)
		if err != nil {
			return nil, err
		}

		for _, src := range loaded {
			if !seen[src.Path] {
				seen[src.Path] = true
				sources = append(sources, src)
			}
		}
	}

	return sources, nil
}
