package graphfile

import (
	"fmt"
	"maps"

	"github.com/rlch/graphsel"
)

// Merge combines graph files into a single graph. Node ids must be unique
// across all files and every dependency must name a declared node.
func Merge(sources []*Source) (*graphsel.Graph, error) {
	g := graphsel.NewGraph()

	type declared struct {
		path string
		line int
	}

	nodes := make(map[string]declared)

	for _, src := range sources {
		for _, n := range src.File.Nodes {
			if existing, ok := nodes[n.ID]; ok {
				return nil, &MergeError{
					Path: src.Path,
					Line: n.Line,
					Code: CodeDuplicateNode,
					Message: fmt.Sprintf("node %q already declared at %s:%d",
						n.ID, existing.path, existing.line),
				}
			}

			nodes[n.ID] = declared{path: src.Path, line: n.Line}

			attrs := maps.Clone(n.Attributes)
			if attrs == nil {
				attrs = map[string]string{}
			}

			if n.Name != "" {
				attrs[graphsel.NameAttribute] = n.Name
			}

			g.AddNode(n.ID, attrs)
		}
	}

	for _, src := range sources {
		for _, n := range src.File.Nodes {
			for _, dep := range n.Deps {
				err := g.AddEdge(dep, n.ID)
				if err != nil {
					return nil, &MergeError{
						Path:    src.Path,
						Line:    n.Line,
						Code:    CodeUnknownDependency,
						Message: fmt.Sprintf("node %q depends on undeclared node %q", n.ID, dep),
					}
				}
			}
		}
	}

	return g, nil
}
