// Package graphfile loads dependency graphs from YAML graph files.
package graphfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Extension is the extension inferred for graph file paths given without one.
const Extension = ".graph.yaml"

// File is a parsed graph file.
type File struct {
	// Include lists further graph files, relative to this file.
	Include []string `yaml:"include,omitempty"`
	Nodes   []Node   `yaml:"nodes,omitempty"`
}

// Node is a single node declaration.
type Node struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	// Deps are the ids of the node's upstream dependencies.
	Deps       []string          `yaml:"deps,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`

	// Line is the line the node starts on, zero when unknown.
	Line int `yaml:"-"`
}

var nodeFields = map[string]bool{"id": true, "name": true, "deps": true, "attributes": true}

// UnmarshalYAML records the node's line and rejects unknown keys.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !nodeFields[key.Value] {
				return fmt.Errorf("line %d: field %s not found in node", key.Line, key.Value)
			}
		}
	}

	type plain Node

	var p plain

	err := value.Decode(&p)
	if err != nil {
		return err
	}

	*n = Node(p)
	n.Line = value.Line

	if n.ID == "" {
		return fmt.Errorf("line %d: node has no id", value.Line)
	}

	return nil
}

// Parse parses graph file data. Empty data is an empty file.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File

	err := dec.Decode(&f)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &f, nil
}
