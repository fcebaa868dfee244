package main

import (
	"context"
	"errors"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/graphsel"
	"github.com/rlch/graphsel/graphfile"
	"github.com/rlch/graphsel/watch"
)

// ErrNoSelection is returned when a command is given no selection.
var ErrNoSelection = errors.New("no selection given")

func (a *app) selectCommand() *cli.Command {
	return &cli.Command{
		Name:      "select",
		Aliases:   []string{"s"},
		Usage:     "Print the ids of the nodes a selection matches",
		ArgsUsage: "SELECTION",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "graph",
				Aliases: []string{"g"},
				Usage:   "graph file, directory or neo4j:// URI (overrides config)",
				Sources: cli.EnvVars("GRAPHSEL_GRAPH"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output results as JSON",
			},
			&cli.StringFlag{
				Name:  "where",
				Usage: `further filter nodes with an expression, e.g. 'attrs.owner == "data"'`,
			},
			&cli.BoolFlag{
				Name:    "case-insensitive",
				Aliases: []string{"i"},
				Usage:   "match name_substring without regard to case",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "re-run when graph files change",
			},
		},
		Action: a.runSelect,
	}
}

func (a *app) runSelect(ctx context.Context, cmd *cli.Command) error {
	input := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(input) == "" {
		return ErrNoSelection
	}

	sel, err := graphsel.Parse(input)
	if err != nil {
		writeDiagnostic(a.stderr, newStyles(a.stderr), input, err)

		return cli.Exit("", 2)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := resolveGraphSource(cmd.String("graph"), cfg)
	if err != nil {
		return err
	}

	var where *graphfile.Where
	if src := cmd.String("where"); src != "" {
		where, err = graphfile.CompileWhere(src)
		if err != nil {
			return err
		}
	}

	opts := append(cfg.EvalOptions(), graphsel.WithLogger(a.logger))
	if cmd.Bool("case-insensitive") {
		opts = append(opts, graphsel.WithCaseInsensitiveSubstring())
	}

	asJSON := cmd.Bool("json") || cfg.OutputFormat() == graphsel.OutputJSON

	run := func() (int, []string, error) {
		g, paths, err := source.load(ctx)
		if err != nil {
			return 0, nil, err
		}

		matched := graphsel.Evaluate(sel, g, opts...)

		if where != nil {
			matched, err = where.Filter(g, matched)
			if err != nil {
				return 0, paths, err
			}
		}

		return matched.Len(), paths, writeResult(a.stdout, sel, matched.Sorted(), asJSON)
	}

	if !cmd.Bool("watch") {
		n, _, err := run()
		if err != nil {
			return err
		}

		if n == 0 {
			return cli.Exit("", 1)
		}

		return nil
	}

	paths := source.watchPaths()
	if len(paths) == 0 {
		return errors.New("--watch needs a graph file or directory")
	}

	if _, read, err := run(); err != nil {
		a.logger.Warn("Selection failed", zap.Error(err))
	} else {
		paths = read
	}

	a.logger.Info("Watching for changes", zap.Strings("paths", paths))

	return watch.Watch(ctx, a.logger, paths, func() ([]string, error) {
		_, read, err := run()

		return read, err
	})
}
