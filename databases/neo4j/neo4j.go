// Package neo4j reads a dependency graph out of a Neo4j database.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/rlch/graphsel"
)

// Defaults applied when the config leaves them empty.
const (
	DefaultRelationship = "DEPENDS_ON"
	DefaultIDProperty   = "id"
)

// ErrInvalidConfig is returned when the config cannot describe a graph.
var ErrInvalidConfig = errors.New("neo4j: invalid config")

// IsURI reports whether s looks like a Neo4j connection URI.
func IsURI(s string) bool {
	for _, scheme := range []string{"neo4j://", "neo4j+s://", "neo4j+ssc://", "bolt://", "bolt+s://", "bolt+ssc://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}

	return false
}

// Source loads graphs from a Neo4j database.
type Source struct {
	driver neo4j.DriverWithContext
	cfg    graphsel.Neo4jConfig
}

// New connects to the database described by cfg.
func New(ctx context.Context, cfg *graphsel.Neo4jConfig) (*Source, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, fmt.Errorf("%w: no uri", ErrInvalidConfig)
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to create driver: %w", err)
	}

	err = driver.VerifyConnectivity(ctx)
	if err != nil {
		_ = driver.Close(ctx)

		return nil, fmt.Errorf("neo4j: failed to connect: %w", err)
	}

	return &Source{driver: driver, cfg: *cfg}, nil
}

// Query returns the Cypher query used to read the graph.
func Query(cfg *graphsel.Neo4jConfig) (string, error) {
	rel := cfg.Relationship
	if rel == "" {
		rel = DefaultRelationship
	}

	if !isIdentifier(rel) || cfg.Label != "" && !isIdentifier(cfg.Label) {
		return "", fmt.Errorf("%w: label and relationship must be plain identifiers", ErrInvalidConfig)
	}

	label := ""
	if cfg.Label != "" {
		label = ":" + cfg.Label
	}

	return fmt.Sprintf("MATCH (n%[1]s)\nOPTIONAL MATCH (n)-[:%[2]s]->(d%[1]s)\nRETURN n, collect(d) AS deps", label, rel), nil
}

// Load reads every node and dependency edge into a graph.
func (s *Source) Load(ctx context.Context) (*graphsel.Graph, error) {
	query, err := Query(&s.cfg)
	if err != nil {
		return nil, err
	}

	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if s.cfg.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(s.cfg.Database))
	}

	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, nil, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("neo4j: query execution failed: %w", err)
	}

	return GraphFromRecords(result.Records, s.cfg.IDProperty)
}

// Close releases the driver.
func (s *Source) Close(ctx context.Context) error {
	err := s.driver.Close(ctx)
	if err != nil {
		return fmt.Errorf("neo4j: failed to close driver: %w", err)
	}

	return nil
}

// GraphFromRecords builds a graph from records shaped like the rows of
// Query: a node "n" and the list of nodes it depends on, "deps".
func GraphFromRecords(records []*neo4j.Record, idProperty string) (*graphsel.Graph, error) {
	if idProperty == "" {
		idProperty = DefaultIDProperty
	}

	g := graphsel.NewGraph()

	type edge struct{ up, down string }

	var edges []edge

	for _, record := range records {
		raw, ok := record.Get("n")
		if !ok {
			return nil, fmt.Errorf("neo4j: record has no column n")
		}

		node, ok := raw.(dbtype.Node)
		if !ok {
			return nil, fmt.Errorf("neo4j: column n is %T, not a node", raw)
		}

		id := nodeID(node, idProperty)
		g.AddNode(id, nodeAttributes(node, idProperty))

		deps, _ := record.Get("deps")
		list, _ := deps.([]any)

		for _, d := range list {
			dep, ok := d.(dbtype.Node)
			if !ok {
				continue
			}

			edges = append(edges, edge{up: nodeID(dep, idProperty), down: id})
		}
	}

	for _, e := range edges {
		err := g.AddEdge(e.up, e.down)
		if err != nil {
			return nil, fmt.Errorf("neo4j: %w", err)
		}
	}

	return g, nil
}

func nodeID(n dbtype.Node, idProperty string) string {
	if v, ok := n.Props[idProperty]; ok && v != nil {
		return fmt.Sprint(v)
	}

	return n.ElementId
}

// nodeAttributes converts node properties to string attributes. Labels are
// exposed as a comma separated "labels" attribute.
func nodeAttributes(n dbtype.Node, idProperty string) map[string]string {
	attrs := make(map[string]string, len(n.Props)+1)

	for prop, v := range n.Props {
		if prop == idProperty || v == nil {
			continue
		}

		attrs[prop] = fmt.Sprint(v)
	}

	if len(n.Labels) > 0 {
		labels := append([]string(nil), n.Labels...)
		sort.Strings(labels)
		attrs["labels"] = strings.Join(labels, ",")
	}

	return attrs
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
