package graphfile

import (
	"errors"
	"fmt"
)

var (
	// ErrGraphNotFound is returned when a graph file cannot be located.
	ErrGraphNotFound = errors.New("graph file not found")

	// ErrParseError wraps YAML decoding failures.
	ErrParseError = errors.New("parse error")
)

// LoadError describes a failure to load a graph file.
type LoadError struct {
	Path         string
	IncludedFrom string
	Cause        error
}

func (e *LoadError) Error() string {
	if e.IncludedFrom != "" {
		return fmt.Sprintf("loading %s (included from %s): %v", e.Path, e.IncludedFrom, e.Cause)
	}

	return fmt.Sprintf("loading %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Merge error codes.
const (
	CodeDuplicateNode     = "duplicate-node"
	CodeUnknownDependency = "unknown-dependency"
)

// MergeError is a fatal error found while combining graph files.
type MergeError struct {
	Path    string
	Line    int
	Code    string
	Message string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("%s at %s:%d: %s", e.Code, e.Path, e.Line, e.Message)
}
