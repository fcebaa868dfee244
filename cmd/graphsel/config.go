package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rlch/graphsel"
	"github.com/rlch/graphsel/databases/neo4j"
	"github.com/rlch/graphsel/graphfile"
)

// ErrNoGraph is returned when neither a flag nor the config names a graph.
var ErrNoGraph = errors.New("no graph specified (use --graph or graph: in .graphsel.yaml)")

// loadConfig loads --config or the nearest .graphsel.yaml. A missing config
// is an empty one.
func loadConfig(cmd *cli.Command) (*graphsel.Config, error) {
	if path := cmd.String("config"); path != "" {
		return graphsel.LoadConfigFile(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := graphsel.LoadConfig(wd)
	if errors.Is(err, graphsel.ErrConfigNotFound) {
		return &graphsel.Config{}, nil
	}

	return cfg, err
}

// graphSource describes where the graph comes from: a graph file or
// directory, or a Neo4j database.
type graphSource struct {
	path  string
	neo4j *graphsel.Neo4jConfig
}

// resolveGraphSource picks the graph from --graph, then the config.
func resolveGraphSource(flag string, cfg *graphsel.Config) (graphSource, error) {
	switch {
	case flag != "" && neo4j.IsURI(flag):
		neoCfg := graphsel.Neo4jConfig{}
		if cfg.Neo4j != nil {
			neoCfg = *cfg.Neo4j
		}

		neoCfg.URI = flag

		return graphSource{neo4j: &neoCfg}, nil
	case flag != "":
		return graphSource{path: flag}, nil
	case cfg.Neo4j != nil && cfg.Neo4j.URI != "":
		return graphSource{neo4j: cfg.Neo4j}, nil
	case cfg.GraphPath() != "":
		return graphSource{path: cfg.GraphPath()}, nil
	default:
		return graphSource{}, ErrNoGraph
	}
}

// watchPaths returns the paths to watch before the graph has been loaded,
// none for a database.
func (s graphSource) watchPaths() []string {
	if s.path == "" {
		return nil
	}

	return []string{s.path}
}

// load loads the graph along with the paths it was read from: the
// configured path and every graph file reached through includes.
func (s graphSource) load(ctx context.Context) (*graphsel.Graph, []string, error) {
	if s.neo4j == nil {
		sources, err := graphfile.LoadSources(s.path)
		if err != nil {
			return nil, nil, err
		}

		g, err := graphfile.Merge(sources)
		if err != nil {
			return nil, nil, err
		}

		paths := s.watchPaths()
		for _, src := range sources {
			paths = append(paths, src.Path)
		}

		return g, paths, nil
	}

	src, err := neo4j.New(ctx, s.neo4j)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = src.Close(ctx) }()

	g, err := src.Load(ctx)

	return g, nil, err
}
