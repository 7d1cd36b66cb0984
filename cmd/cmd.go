// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// runCommand performs the mount, sync, unmount cycle. Every argument is forwarded to the synchronizer.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Mount the player, run the synchronizer once, and unmount",
		ArgsUsage:       "[synchronizer arguments...]",
		SkipFlagParsing: true,
		Action:          r.Run,
	}
}

// syncCommand mirrors a playlist from the library into a destination directory.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Copy the files a playlist names to a directory and delete everything else",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Music library root",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "dest",
				Usage:    "Destination directory on the device",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "playlist",
				Usage:    "M3U playlist naming files under --source",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "no-delete",
				Usage: "Keep destination files the playlist does not name",
			},
			&cli.BoolFlag{
				Name:  "silent",
				Usage: "Only log at info level and above",
			},
			&cli.BoolFlag{
				Name:  "normalize",
				Usage: "Use FAT-safe, NFC-normalized destination names",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without touching the destination",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent copies (1-8)",
				Value: 1,
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Write a per-file report (.csv, .md, .txt or .json)",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show interactive progress when attached to a terminal",
			},
		},
		Action: r.Sync,
	}
}

// historyCommand lists recorded runs and reports.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded wrapper runs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reports",
				Usage: "List synchronizer reports instead of wrapper runs",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// setupCommand creates the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database and run migrations",
		Action: r.Setup,
	}
}
