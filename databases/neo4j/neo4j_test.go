//nolint:testpackage
package neo4j

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/rlch/graphsel"
)

func record(n dbtype.Node, deps ...dbtype.Node) *neo4j.Record {
	list := make([]any, len(deps))
	for i, d := range deps {
		list[i] = d
	}

	return &neo4j.Record{Keys: []string{"n", "deps"}, Values: []any{n, list}}
}

func TestGraphFromRecords(t *testing.T) {
	raw := dbtype.Node{ElementId: "4:x:1", Labels: []string{"Model", "Source"}, Props: map[string]any{"id": "raw_orders"}}
	clean := dbtype.Node{ElementId: "4:x:2", Labels: []string{"Model"}, Props: map[string]any{
		"id":    "clean_orders",
		"name":  "Clean Orders",
		"rows":  int64(42),
		"empty": nil,
	}}
	anonymous := dbtype.Node{ElementId: "4:x:3"}

	g, err := GraphFromRecords([]*neo4j.Record{
		record(clean, raw),
		record(raw),
		record(anonymous, clean),
	}, "")
	if err != nil {
		t.Fatalf("GraphFromRecords() error = %v", err)
	}

	if diff := cmp.Diff([]string{"4:x:3", "clean_orders", "raw_orders"}, g.NodeIDs().Sorted()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	wantAttrs := map[string]string{"name": "Clean Orders", "rows": "42", "labels": "Model"}
	if diff := cmp.Diff(wantAttrs, g.Attributes("clean_orders")); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	if got := g.Attributes("raw_orders")["labels"]; got != "Model,Source" {
		t.Errorf("labels = %q, want %q", got, "Model,Source")
	}

	got, err := graphsel.Select("name:raw_orders+", g)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"clean_orders", "raw_orders"}, got.Sorted()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphFromRecords_CustomIDProperty(t *testing.T) {
	n := dbtype.Node{ElementId: "4:x:1", Props: map[string]any{"key": int64(7), "id": "ignored"}}

	g, err := GraphFromRecords([]*neo4j.Record{record(n)}, "key")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"7"}, g.NodeIDs().Sorted()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	if got := g.Attributes("7")["id"]; got != "ignored" {
		t.Errorf("id attribute = %q, want %q", got, "ignored")
	}
}

func TestGraphFromRecords_Errors(t *testing.T) {
	_, err := GraphFromRecords([]*neo4j.Record{{Keys: []string{"m"}, Values: []any{"x"}}}, "")
	if err == nil {
		t.Error("expected error for missing column")
	}

	_, err = GraphFromRecords([]*neo4j.Record{{Keys: []string{"n"}, Values: []any{"x"}}}, "")
	if err == nil {
		t.Error("expected error for non-node column")
	}

	// A dependency outside the matched label set is not in the graph.
	outside := dbtype.Node{ElementId: "4:x:9", Props: map[string]any{"id": "outside"}}
	n := dbtype.Node{ElementId: "4:x:1", Props: map[string]any{"id": "inside"}}

	_, err = GraphFromRecords([]*neo4j.Record{record(n, outside)}, "")
	if err == nil {
		t.Error("expected error for dependency on unread node")
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name    string
		cfg     graphsel.Neo4jConfig
		want    string
		wantErr bool
	}{
		{
			name: "defaults",
			want: "MATCH (n)\nOPTIONAL MATCH (n)-[:DEPENDS_ON]->(d)\nRETURN n, collect(d) AS deps",
		},
		{
			name: "label and relationship",
			cfg:  graphsel.Neo4jConfig{Label: "Model", Relationship: "READS_FROM"},
			want: "MATCH (n:Model)\nOPTIONAL MATCH (n)-[:READS_FROM]->(d:Model)\nRETURN n, collect(d) AS deps",
		},
		{
			name:    "injection rejected",
			cfg:     graphsel.Neo4jConfig{Label: "Model) DETACH DELETE (n"},
			wantErr: true,
		},
		{
			name:    "leading digit rejected",
			cfg:     graphsel.Neo4jConfig{Relationship: "1DEP"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Query() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Query() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsURI(t *testing.T) {
	for _, s := range []string{"neo4j://localhost", "bolt://db:7687", "neo4j+s://x.databases.neo4j.io"} {
		if !IsURI(s) {
			t.Errorf("IsURI(%q) = false", s)
		}
	}

	for _, s := range []string{"graph.yaml", "./neo4j", "http://localhost"} {
		if IsURI(s) {
			t.Errorf("IsURI(%q) = true", s)
		}
	}
}

func TestNew_RequiresURI(t *testing.T) {
	_, err := New(context.Background(), &graphsel.Neo4jConfig{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSource_Load(t *testing.T) {
	uri := os.Getenv("GRAPHSEL_NEO4J_URI")
	if uri == "" {
		t.Skip("GRAPHSEL_NEO4J_URI not set, skipping integration test")
	}

	ctx := context.Background()

	src, err := New(ctx, &graphsel.Neo4jConfig{
		URI:      uri,
		Username: os.Getenv("GRAPHSEL_NEO4J_USER"),
		Password: os.Getenv("GRAPHSEL_NEO4J_PASS"),
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer func() { _ = src.Close(ctx) }()

	if _, err := src.Load(ctx); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
