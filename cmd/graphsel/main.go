// Command graphsel selects nodes of a dependency graph with selection
// expressions such as "+name:clean_orders*".
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)

	err := a.command().Run(ctx, os.Args)

	a.sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger

	// exitErrHandler replaces the default os.Exit on cli.Exit errors.
	exitErrHandler cli.ExitErrHandlerFunc
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:                  "graphsel",
		Usage:                 "Select nodes of a dependency graph",
		EnableShellCompletion: true,
		Writer:                a.stdout,
		ErrWriter:             a.stderr,
		ExitErrHandler:        a.exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a .graphsel.yaml (default: nearest in a parent directory)",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.selectCommand(),
			a.checkCommand(),
			a.fmtCommand(),
			a.tokensCommand(),
			a.exploreCommand(),
		},
	}
}

// before sets up logging to stderr, keeping stdout for results.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if a.logger != nil {
		return ctx, nil
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return ctx, fmt.Errorf("building logger: %w", err)
	}

	a.logger = logger

	return ctx, nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
