package graphsel

import (
	"fmt"
	"maps"
	"slices"
)

// NodeID identifies a node in a host graph.
type NodeID = string

// GraphView is the read-only view of a dependency graph that selections are
// evaluated against. Implementations must not change while an evaluation is
// in progress.
type GraphView interface {
	// NodeIDs returns every node in the graph. Callers must not modify it.
	NodeIDs() NodeSet
	// Attribute returns the value of a named attribute of a node.
	Attribute(id NodeID, attr string) (string, bool)
	// Upstream returns the direct dependencies of a node.
	Upstream(id NodeID) []NodeID
	// Downstream returns the nodes that directly depend on a node.
	Downstream(id NodeID) []NodeID
}

// NodeSet is a set of node identifiers.
type NodeSet map[NodeID]struct{}

// NewNodeSet returns a set holding ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Add inserts id.
func (s NodeSet) Add(id NodeID) { s[id] = struct{}{} }

// Contains reports whether id is in the set.
func (s NodeSet) Contains(id NodeID) bool {
	_, ok := s[id]

	return ok
}

// Len returns the number of nodes.
func (s NodeSet) Len() int { return len(s) }

// Clone returns a copy of the set.
func (s NodeSet) Clone() NodeSet {
	out := make(NodeSet, len(s))
	maps.Copy(out, s)

	return out
}

// Union returns a new set with the members of s and o.
func (s NodeSet) Union(o NodeSet) NodeSet {
	out := s.Clone()
	maps.Copy(out, o)

	return out
}

// Intersect returns a new set with the members common to s and o.
func (s NodeSet) Intersect(o NodeSet) NodeSet {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}

	out := make(NodeSet, len(small))

	for id := range small {
		if large.Contains(id) {
			out.Add(id)
		}
	}

	return out
}

// Difference returns a new set with the members of s not in o.
func (s NodeSet) Difference(o NodeSet) NodeSet {
	out := make(NodeSet, len(s))

	for id := range s {
		if !o.Contains(id) {
			out.Add(id)
		}
	}

	return out
}

// Equal reports whether s and o have the same members.
func (s NodeSet) Equal(o NodeSet) bool {
	if len(s) != len(o) {
		return false
	}

	for id := range s {
		if !o.Contains(id) {
			return false
		}
	}

	return true
}

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []NodeID {
	out := make([]NodeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}

	slices.Sort(out)

	return out
}

// Graph is an in-memory GraphView. Edges point from an upstream node to the
// node that depends on it.
//
// A Graph is not safe for concurrent mutation; once built it may be read from
// any number of goroutines.
type Graph struct {
	nodes      NodeSet
	attrs      map[NodeID]map[string]string
	upstream   map[NodeID][]NodeID
	downstream map[NodeID][]NodeID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      NodeSet{},
		attrs:      map[NodeID]map[string]string{},
		upstream:   map[NodeID][]NodeID{},
		downstream: map[NodeID][]NodeID{},
	}
}

// AddNode adds a node. Its name attribute defaults to id when attrs does not
// set one. Adding an existing node merges attrs into its attributes.
func (g *Graph) AddNode(id NodeID, attrs map[string]string) {
	g.nodes.Add(id)

	existing, ok := g.attrs[id]
	if !ok {
		existing = map[string]string{NameAttribute: id}
		g.attrs[id] = existing
	}

	maps.Copy(existing, attrs)
}

// SetAttribute sets a single attribute of an existing node.
func (g *Graph) SetAttribute(id NodeID, attr, value string) error {
	if !g.nodes.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	g.attrs[id][attr] = value

	return nil
}

// AddEdge records that downstream depends on upstream. Both nodes must exist.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(upstream, downstream NodeID) error {
	for _, id := range []NodeID{upstream, downstream} {
		if !g.nodes.Contains(id) {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}

	if slices.Contains(g.downstream[upstream], downstream) {
		return nil
	}

	g.downstream[upstream] = append(g.downstream[upstream], downstream)
	g.upstream[downstream] = append(g.upstream[downstream], upstream)

	return nil
}

// NodeIDs implements GraphView.
func (g *Graph) NodeIDs() NodeSet { return g.nodes }

// Attribute implements GraphView.
func (g *Graph) Attribute(id NodeID, attr string) (string, bool) {
	v, ok := g.attrs[id][attr]

	return v, ok
}

// Attributes returns a copy of every attribute of a node.
func (g *Graph) Attributes(id NodeID) map[string]string {
	return maps.Clone(g.attrs[id])
}

// Upstream implements GraphView.
func (g *Graph) Upstream(id NodeID) []NodeID { return g.upstream[id] }

// Downstream implements GraphView.
func (g *Graph) Downstream(id NodeID) []NodeID { return g.downstream[id] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }
