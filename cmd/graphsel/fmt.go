package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/graphsel"
)

func (a *app) fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Print a selection in canonical form",
		ArgsUsage: "SELECTION",
		Action:    a.runFmt,
	}
}

func (a *app) runFmt(_ context.Context, cmd *cli.Command) error {
	input := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(input) == "" {
		return ErrNoSelection
	}

	sel, err := graphsel.Parse(input)
	if err != nil {
		writeDiagnostic(a.stderr, newStyles(a.stderr), input, err)

		return cli.Exit("", 2)
	}

	_, err = fmt.Fprintln(a.stdout, graphsel.Format(sel))

	return err
}
