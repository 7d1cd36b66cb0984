package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playersync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "playersync",
		Usage:   "Mount the player, mirror a playlist onto it, and unmount",
		Version: "0.2.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   runner.loadConfig,
		Commands: runner.register(),
		// Exit codes are handled below so the unmount status reaches the shell unchanged.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			runner.logger.Debug("exiting", "status", coder.ExitCode(), "error", err)
			os.Exit(coder.ExitCode())
		}
		runner.logger.Error("application error", "error", err)
		os.Exit(1)
	}
}
