package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playersync/internal/models"
	"github.com/desertthunder/playersync/internal/repositories"
	"github.com/desertthunder/playersync/internal/shared"
)

const timeLayout = "2006-01-02 15:04:05"

// runView is the JSON shape of a recorded wrapper run.
type runView struct {
	ID            string     `json:"id"`
	Sequence      int        `json:"sequence"`
	MountPoint    string     `json:"mount_point"`
	CommandLine   string     `json:"command_line"`
	Status        string     `json:"status"`
	MountStatus   int        `json:"mount_status"`
	SyncStatus    *int       `json:"sync_status"`
	UnmountStatus *int       `json:"unmount_status"`
	ExitStatus    int        `json:"exit_status"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// reportView is the JSON shape of a stored synchronizer report.
type reportView struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	Source      string    `json:"source"`
	Dest        string    `json:"dest"`
	Playlist    string    `json:"playlist"`
	DryRun      bool      `json:"dry_run"`
	Copied      int       `json:"copied"`
	Skipped     int       `json:"skipped"`
	Deleted     int       `json:"deleted"`
	Failed      int       `json:"failed"`
	BytesCopied int64     `json:"bytes_copied"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

func newRunView(run *models.SyncRun) runView {
	return runView{
		ID:            run.ID(),
		Sequence:      run.Sequence(),
		MountPoint:    run.MountPoint(),
		CommandLine:   run.CommandLine(),
		Status:        string(run.Status()),
		MountStatus:   run.MountStatus(),
		SyncStatus:    run.SyncStatus(),
		UnmountStatus: run.UnmountStatus(),
		ExitStatus:    run.ExitStatus(),
		StartedAt:     run.StartedAt(),
		CompletedAt:   run.CompletedAt(),
	}
}

func newReportView(report *models.SyncReport) reportView {
	c := report.Counts()
	return reportView{
		ID:          report.ID(),
		Sequence:    report.Sequence(),
		Source:      report.Source(),
		Dest:        report.Dest(),
		Playlist:    report.Playlist(),
		DryRun:      report.DryRun(),
		Copied:      c.Copied,
		Skipped:     c.Skipped,
		Deleted:     c.Deleted,
		Failed:      c.Failed,
		BytesCopied: c.BytesCopied,
		StartedAt:   report.StartedAt(),
		CompletedAt: report.CompletedAt(),
	}
}

// History lists recorded wrapper runs, or synchronizer reports with --reports.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidFlag)
	}

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("history requires a database: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{"limit": limit}

	if cmd.Bool("reports") {
		reports, err := repositories.NewReportRepository(db).List(criteria)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			views := make([]reportView, len(reports))
			for i, report := range reports {
				views[i] = newReportView(report)
			}
			return r.writeJSON(views, cmd.Bool("pretty"))
		}
		return r.writeReportTable(reports)
	}

	runs, err := repositories.NewRunRepository(db).List(criteria)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		views := make([]runView, len(runs))
		for i, run := range runs {
			views[i] = newRunView(run)
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}
	return r.writeRunTable(runs)
}

func (r *Runner) writeRunTable(runs []*models.SyncRun) error {
	if len(runs) == 0 {
		return r.writePlain("No runs recorded.\n")
	}

	headers := []string{"#", "Started", "Status", "Mount", "Sync", "Unmount", "Exit", "Duration"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.Itoa(run.Sequence()),
			run.StartedAt().Local().Format(timeLayout),
			string(run.Status()),
			strconv.Itoa(run.MountStatus()),
			optionalStatus(run.SyncStatus()),
			optionalStatus(run.UnmountStatus()),
			strconv.Itoa(run.ExitStatus()),
			elapsed(run.StartedAt(), run.CompletedAt()),
		})
	}
	return r.writePlain("%s\n", renderTable(headers, rows, aligns))
}

func (r *Runner) writeReportTable(reports []*models.SyncReport) error {
	if len(reports) == 0 {
		return r.writePlain("No reports recorded.\n")
	}

	headers := []string{"#", "Started", "Destination", "Dry run", "Copied", "Skipped", "Deleted", "Failed", "Size"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		c := report.Counts()
		dryRun := "no"
		if report.DryRun() {
			dryRun = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(report.Sequence()),
			report.StartedAt().Local().Format(timeLayout),
			report.Dest(),
			dryRun,
			strconv.Itoa(c.Copied),
			strconv.Itoa(c.Skipped),
			strconv.Itoa(c.Deleted),
			strconv.Itoa(c.Failed),
			shared.FormatBytes(c.BytesCopied),
		})
	}
	return r.writePlain("%s\n", renderTable(headers, rows, aligns))
}

func optionalStatus(code *int) string {
	if code == nil {
		return "-"
	}
	return strconv.Itoa(*code)
}

func elapsed(start time.Time, end *time.Time) string {
	if end == nil {
		return "-"
	}
	return end.Sub(start).Round(time.Second).String()
}
