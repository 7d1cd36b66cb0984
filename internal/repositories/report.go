package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playersync/internal/models"
	"github.com/desertthunder/playersync/internal/shared"
)

const reportColumns = `
	id, sequence, source, dest, playlist, dry_run, copied, skipped,
	deleted, failed, bytes_copied, started_at, completed_at,
	created_at, updated_at, deleted_at
`

// ReportRepository implements models.Repository[*models.SyncReport] for synchronizer summaries.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository with the given database connection
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report into the database with generated ID and sequence
func (r *ReportRepository) Create(report *models.SyncReport) error {
	sequence, err := NextSequence(r.db, "sync_reports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	report.SetID(shared.GenerateID())
	report.SetSequence(sequence)

	if err := report.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c := report.Counts()
	query := `INSERT INTO sync_reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`

	_, err = r.db.Exec(query,
		report.ID(),
		report.Sequence(),
		report.Source(),
		report.Dest(),
		report.Playlist(),
		report.DryRun(),
		c.Copied,
		c.Skipped,
		c.Deleted,
		c.Failed,
		c.BytesCopied,
		report.StartedAt(),
		report.CompletedAt(),
		report.CreatedAt(),
		report.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// Get retrieves a report by ID, excluding soft-deleted reports
func (r *ReportRepository) Get(id string) (*models.SyncReport, error) {
	query := `SELECT ` + reportColumns + ` FROM sync_reports WHERE id = ? AND deleted_at IS NULL`

	report, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: report %s", shared.ErrRecordNotFound, id)
	}
	return report, err
}

// Update rewrites the counts of an existing report
func (r *ReportRepository) Update(report *models.SyncReport) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	report.SetUpdatedAt(now)
	c := report.Counts()

	query := `
		UPDATE sync_reports
		SET copied = ?, skipped = ?, deleted = ?, failed = ?, bytes_copied = ?,
			completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		c.Copied, c.Skipped, c.Deleted, c.Failed, c.BytesCopied,
		report.CompletedAt(), now, report.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	return expectOneRow(result, "report", report.ID())
}

// Delete soft-deletes a report by ID
func (r *ReportRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sync_reports SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	return expectOneRow(result, "report", id)
}

// List retrieves reports newest first.
//
// Supported criteria: "dest" (string), "dry_run" (bool) and "limit" (int).
func (r *ReportRepository) List(criteria map[string]any) ([]*models.SyncReport, error) {
	query := `SELECT ` + reportColumns + ` FROM sync_reports WHERE deleted_at IS NULL`
	args := []any{}

	if dest, ok := criteria["dest"].(string); ok && dest != "" {
		query += " AND dest = ?"
		args = append(args, dest)
	}

	if dryRun, ok := criteria["dry_run"].(bool); ok {
		query += " AND dry_run = ?"
		args = append(args, dryRun)
	}

	query += " ORDER BY sequence DESC"
	query, args = limitClause(query, args, criteria)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.SyncReport
	for rows.Next() {
		report, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reports, nil
}

func (r *ReportRepository) scan(row scanner) (*models.SyncReport, error) {
	var (
		id          string
		sequence    int
		source      string
		dest        string
		playlist    string
		dryRun      bool
		c           models.ReportCounts
		startedAt   time.Time
		completedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &source, &dest, &playlist, &dryRun,
		&c.Copied, &c.Skipped, &c.Deleted, &c.Failed, &c.BytesCopied,
		&startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	report := models.NewSyncReport(sequence, source, dest, playlist, dryRun)
	report.SetID(id)
	report.SetCounts(c)
	report.SetWindow(startedAt, completedAt)
	report.SetTimestamps(createdAt, updatedAt)
	if deletedAt.Valid {
		report.SetDeletedAt(&deletedAt.Time)
	}

	return report, nil
}
