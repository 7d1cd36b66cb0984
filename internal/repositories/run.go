package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playersync/internal/models"
	"github.com/desertthunder/playersync/internal/shared"
)

const runColumns = `
	id, sequence, mount_point, command_line, status, mount_status,
	sync_status, unmount_status, exit_status, started_at, completed_at,
	created_at, updated_at, deleted_at
`

// RunRepository implements models.Repository[*models.SyncRun] for wrapper run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO sync_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.MountPoint(),
		run.CommandLine(),
		string(run.Status()),
		run.MountStatus(),
		nullableInt(run.SyncStatus()),
		nullableInt(run.UnmountStatus()),
		run.ExitStatus(),
		run.StartedAt(),
		nullableTime(run.CompletedAt()),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE id = ? AND deleted_at IS NULL`

	run, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", shared.ErrRecordNotFound, id)
	}
	return run, err
}

// Update writes the step statuses and completion state of an existing run
func (r *RunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET status = ?, mount_status = ?, sync_status = ?, unmount_status = ?,
			exit_status = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.MountStatus(),
		nullableInt(run.SyncStatus()),
		nullableInt(run.UnmountStatus()),
		run.ExitStatus(),
		nullableTime(run.CompletedAt()),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return expectOneRow(result, "run", run.ID())
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sync_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return expectOneRow(result, "run", id)
}

// List retrieves runs newest first.
//
// Supported criteria: "status" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"
	query, args = limitClause(query, args, criteria)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func (r *RunRepository) scan(row scanner) (*models.SyncRun, error) {
	var (
		id            string
		sequence      int
		mountPoint    string
		commandLine   string
		status        string
		mountStatus   int
		syncStatus    sql.NullInt64
		unmountStatus sql.NullInt64
		exitStatus    int
		startedAt     time.Time
		completedAt   sql.NullTime
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &mountPoint, &commandLine, &status, &mountStatus,
		&syncStatus, &unmountStatus, &exitStatus, &startedAt, &completedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewSyncRun(sequence, mountPoint, commandLine)
	run.SetID(id)
	run.SetStatus(models.RunStatus(status))
	run.SetMountStatus(mountStatus)
	run.SetExitStatus(exitStatus)
	run.SetStartedAt(startedAt)
	run.SetTimestamps(createdAt, updatedAt)

	if syncStatus.Valid {
		run.SetSyncStatus(int(syncStatus.Int64))
	}
	if unmountStatus.Valid {
		run.SetUnmountStatus(int(unmountStatus.Int64))
	}
	if completedAt.Valid {
		run.SetCompletedAt(completedAt.Time)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func expectOneRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s not found or already deleted", shared.ErrRecordNotFound, kind, id)
	}
	return nil
}
