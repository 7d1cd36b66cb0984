package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playersync/internal/formatter"
	"github.com/desertthunder/playersync/internal/models"
	"github.com/desertthunder/playersync/internal/playlist"
	"github.com/desertthunder/playersync/internal/repositories"
	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/tasks"
)

// Sync mirrors the playlist's files from --source into --dest.
//
// Any failed file makes the command fail after the summary and report are written.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	workers := cmd.Int("workers")
	if !cmd.IsSet("workers") && r.config.Synchronizer.Workers > 0 {
		workers = r.config.Synchronizer.Workers
	}
	if workers < 1 || workers > tasks.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 1 and %d", shared.ErrInvalidFlag, tasks.MaxWorkers)
	}

	reportPath := cmd.String("report")
	if reportPath != "" {
		if _, err := formatter.FormatFromPath(reportPath); err != nil {
			return err
		}
	}

	if cmd.Bool("silent") {
		shared.SetLogLevel(r.logger, max(log.InfoLevel, r.logger.GetLevel()))
	} else {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	useTUI := cmd.Bool("tui") && isTerminal(r.output)
	if cmd.Bool("tui") && !useTUI {
		r.logger.Warn("output is not a terminal, falling back to plain progress")
	}
	if useTUI {
		if err := r.redirectLogs(); err != nil {
			return err
		}
	}

	source := cmd.String("source")
	pl, err := playlist.Load(cmd.String("playlist"), playlist.Options{
		Source:    source,
		Normalize: cmd.Bool("normalize"),
	})
	if err != nil {
		return err
	}
	r.logger.Info("loaded playlist", "path", pl.Path, "entries", pl.Len(), "rejected", len(pl.Rejected))

	s := tasks.NewSynchronizer(tasks.Options{
		Source:   source,
		Dest:     cmd.String("dest"),
		NoDelete: cmd.Bool("no-delete"),
		DryRun:   cmd.Bool("dry-run"),
		Workers:  workers,
		CopyRate: r.config.Synchronizer.CopyRate,
	}, r.logger)

	var res *tasks.SyncResult
	if useTUI {
		res, err = r.syncWithTUI(ctx, s, pl)
	} else {
		res, err = s.Run(ctx, pl, nil)
	}
	if res == nil {
		return err
	}

	r.printSummary(res)

	if reportPath != "" {
		format, werr := formatter.WriteReport(res, reportPath)
		if werr != nil {
			return errors.Join(err, werr)
		}
		r.logger.Info("report written", "path", reportPath, "format", format)
	}

	r.storeReport(res)
	return err
}

func (r *Runner) printSummary(res *tasks.SyncResult) {
	prefix := ""
	if res.DryRun {
		prefix = "[dry run] "
	}
	r.writePlain("%sCopied %d (%s), skipped %d, deleted %d files and %d directories, failed %d\n",
		prefix, res.Copied, shared.FormatBytes(res.BytesCopied), res.Skipped, res.Deleted, res.RemovedDirs, res.Failed)
	for _, path := range res.SortedPaths(tasks.ActionFailed) {
		r.writePlain("  ✗ %s\n", path)
	}
}

// storeReport records res in the database when one is configured. Failures are only logged.
func (r *Runner) storeReport(res *tasks.SyncResult) {
	db, err := r.openDatabase()
	if err != nil {
		if !errors.Is(err, shared.ErrDatabaseDisabled) {
			r.logger.Warn("failed to open database, report not stored", "error", err)
		}
		return
	}
	defer db.Close()

	report := models.NewSyncReport(0, res.Source, res.Dest, res.Playlist, res.DryRun)
	report.SetCounts(models.ReportCounts{
		Copied:      res.Copied,
		Skipped:     res.Skipped,
		Deleted:     res.Deleted,
		Failed:      res.Failed,
		BytesCopied: res.BytesCopied,
	})
	report.SetWindow(res.StartedAt, res.CompletedAt)

	if err := repositories.NewReportRepository(db).Create(report); err != nil {
		r.logger.Warn("failed to store report", "error", err)
		return
	}
	r.logger.Debug("report stored", "id", report.ID(), "sequence", report.Sequence())
}
