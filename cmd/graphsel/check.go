package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rlch/graphsel"
)

func (a *app) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate selections without evaluating them",
		ArgsUsage: "SELECTION...",
		Action:    a.runCheck,
	}
}

func (a *app) runCheck(_ context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return ErrNoSelection
	}

	st := newStyles(a.stdout)
	failed := 0

	for _, input := range inputs {
		sel, err := graphsel.Parse(input)
		if err != nil {
			failed++

			writeDiagnostic(a.stdout, st, input, err)

			continue
		}

		_, _ = fmt.Fprintf(a.stdout, "%s %s\n", st.ok.Render("ok"), graphsel.Format(sel))
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d selections invalid", failed, len(inputs)), 1)
	}

	return nil
}
