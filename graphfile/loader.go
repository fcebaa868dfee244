package graphfile

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// Source pairs a parsed graph file with its absolute path.
type Source struct {
	Path string
	File *File
}

// Loader handles loading and caching of graph files.
type Loader struct {
	// cache stores loaded files by absolute path.
	cache map[string]*File

	// Parser is the function used to parse graph files.
	// Defaults to Parse but can be overridden for testing.
	Parser func(data []byte) (*File, error)
}

// NewLoader creates a new graph file loader.
func NewLoader() *Loader {
	return &Loader{
		cache:  make(map[string]*File),
		Parser: Parse,
	}
}

// Load loads a single graph file without following its includes.
// Relative paths are resolved from the current working directory.
func (l *Loader) Load(path string) (*Source, error) {
	absPath, err := l.resolvePath(path, "")
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	return l.loadAbsolute(absPath, "")
}

// LoadAll loads a graph file and, depth first, every file it includes.
// Each file appears once even when included more than once or in a cycle.
func (l *Loader) LoadAll(path string) ([]*Source, error) {
	seen := map[string]bool{}

	var out []*Source

	err := l.loadTree(path, "", seen, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (l *Loader) loadTree(path, includedFrom string, seen map[string]bool, out *[]*Source) error {
	absPath, err := l.resolvePath(path, includedFrom)
	if err != nil {
		return &LoadError{Path: path, IncludedFrom: includedFrom, Cause: err}
	}

	if seen[absPath] {
		return nil
	}

	seen[absPath] = true

	src, err := l.loadAbsolute(absPath, includedFrom)
	if err != nil {
		return err
	}

	*out = append(*out, src)

	for _, inc := range src.File.Include {
		err := l.loadTree(inc, absPath, seen, out)
		if err != nil {
			return err
		}
	}

	return nil
}

// resolvePath resolves a path to an absolute path.
// If basePath is provided, relative paths are resolved from its directory.
func (l *Loader) resolvePath(path, basePath string) (string, error) {
	if filepath.IsAbs(path) {
		return l.normalizeGraphPath(path)
	}

	var baseDir string
	if basePath != "" {
		baseDir = filepath.Dir(basePath)
	} else {
		var err error

		baseDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return l.normalizeGraphPath(filepath.Join(baseDir, path))
}

// normalizeGraphPath ensures the path exists, trying the graph extension when
// the path has none.
func (l *Loader) normalizeGraphPath(path string) (string, error) {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return filepath.Abs(path)
	}

	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		withExt := path + Extension
		if _, err := os.Stat(withExt); err == nil {
			return filepath.Abs(withExt)
		}
	}

	return "", fmt.Errorf("%w: %s", ErrGraphNotFound, path)
}

func (l *Loader) loadAbsolute(absPath, includedFrom string) (*Source, error) {
	if f, ok := l.cache[absPath]; ok {
		return &Source{Path: absPath, File: f}, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &LoadError{Path: absPath, IncludedFrom: includedFrom, Cause: err}
	}

	f, err := l.Parser(data)
	if err != nil {
		return nil, &LoadError{
			Path:         absPath,
			IncludedFrom: includedFrom,
			Cause:        fmt.Errorf("%w: %w", ErrParseError, err),
		}
	}

	l.cache[absPath] = f

	return &Source{Path: absPath, File: f}, nil
}

// Clear clears the file cache.
func (l *Loader) Clear() {
	l.cache = make(map[string]*File)
}

// Cached returns all cached files by absolute path.
func (l *Loader) Cached() map[string]*File {
	result := make(map[string]*File, len(l.cache))
	maps.Copy(result, l.cache)

	return result
}
