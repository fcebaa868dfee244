package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/graphsel"
)

func (a *app) tokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Print the tokens of a selection",
		ArgsUsage: "SELECTION",
		Hidden:    true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "whitespace",
				Usage: "include whitespace tokens",
			},
		},
		Action: a.runTokens,
	}
}

func (a *app) runTokens(_ context.Context, cmd *cli.Command) error {
	input := strings.Join(cmd.Args().Slice(), " ")

	tokens, err := graphsel.Tokenize(input)

	for _, tok := range tokens {
		if tok.Type == graphsel.TokenWhitespace && !cmd.Bool("whitespace") {
			continue
		}

		_, _ = fmt.Fprintf(a.stdout, "%-6s %-15s %q\n", tok.Pos.String(), graphsel.TokenKindName(tok.Type), tok.Value)
	}

	if err != nil {
		writeDiagnostic(a.stderr, newStyles(a.stderr), input, err)

		return cli.Exit("", 2)
	}

	return nil
}
