package graphsel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rlch/graphsel"
)

// attr is shorthand for an exact name match.
func attr(v string) graphsel.AttributeMatch {
	return graphsel.AttributeMatch{Attribute: graphsel.AttrName, Value: v}
}

// substr is shorthand for a substring name match.
func substr(v string) graphsel.AttributeMatch {
	return graphsel.AttributeMatch{Attribute: graphsel.AttrNameSubstring, Value: v}
}

// newGraph builds a graph from upstream -> downstream edge pairs. Every node
// mentioned in nodes or edges is created with its id as name.
func newGraph(t *testing.T, nodes []string, edges ...[2]string) *graphsel.Graph {
	t.Helper()

	g := graphsel.NewGraph()
	for _, id := range nodes {
		g.AddNode(id, nil)
	}

	for _, e := range edges {
		g.AddNode(e[0], nil)
		g.AddNode(e[1], nil)
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}

	return g
}

// pipelineGraph is the fixture used by most evaluation tests:
//
//	raw_orders -> clean_orders -> daily_revenue -> report
//	raw_users  -> clean_users  ---^
//	Audit_Log (isolated)
func pipelineGraph(t *testing.T) *graphsel.Graph {
	t.Helper()

	return newGraph(t, []string{"Audit_Log"},
		[2]string{"raw_orders", "clean_orders"},
		[2]string{"clean_orders", "daily_revenue"},
		[2]string{"raw_users", "clean_users"},
		[2]string{"clean_users", "daily_revenue"},
		[2]string{"daily_revenue", "report"},
	)
}

// selectIDs parses and evaluates input, returning sorted ids.
func selectIDs(t *testing.T, input string, g graphsel.GraphView, opts ...graphsel.Option) []string {
	t.Helper()

	set, err := graphsel.Select(input, g, opts...)
	require.NoError(t, err, "Select(%q)", input)

	return set.Sorted()
}
