package models

import (
	"fmt"
	"time"
)

// SyncReport is the persisted summary of one synchronizer pass.
type SyncReport struct {
	base
	source      string
	dest        string
	playlist    string
	dryRun      bool
	copied      int
	skipped     int
	deleted     int
	failed      int
	bytesCopied int64
	startedAt   time.Time
	completedAt time.Time
}

// ReportCounts groups the per-action tallies of a synchronizer pass.
type ReportCounts struct {
	Copied      int
	Skipped     int
	Deleted     int
	Failed      int
	BytesCopied int64
}

// NewSyncReport creates a SyncReport for a pass over source → dest driven by playlist.
func NewSyncReport(sequence int, source, dest, playlist string, dryRun bool) *SyncReport {
	now := time.Now()
	return &SyncReport{
		base:        newBase(sequence),
		source:      source,
		dest:        dest,
		playlist:    playlist,
		dryRun:      dryRun,
		startedAt:   now,
		completedAt: now,
	}
}

func (r *SyncReport) Source() string         { return r.source }
func (r *SyncReport) Dest() string           { return r.dest }
func (r *SyncReport) Playlist() string       { return r.playlist }
func (r *SyncReport) DryRun() bool           { return r.dryRun }
func (r *SyncReport) StartedAt() time.Time   { return r.startedAt }
func (r *SyncReport) CompletedAt() time.Time { return r.completedAt }

func (r *SyncReport) Counts() ReportCounts {
	return ReportCounts{
		Copied:      r.copied,
		Skipped:     r.skipped,
		Deleted:     r.deleted,
		Failed:      r.failed,
		BytesCopied: r.bytesCopied,
	}
}

func (r *SyncReport) SetCounts(c ReportCounts) {
	r.copied = c.Copied
	r.skipped = c.Skipped
	r.deleted = c.Deleted
	r.failed = c.Failed
	r.bytesCopied = c.BytesCopied
}

// SetWindow sets the time span the pass covered.
func (r *SyncReport) SetWindow(started, completed time.Time) {
	r.startedAt = started
	r.completedAt = completed
}

func (r *SyncReport) Validate() error {
	if r.source == "" || r.dest == "" || r.playlist == "" {
		return fmt.Errorf("source, dest and playlist are required")
	}
	c := r.Counts()
	if c.Copied < 0 || c.Skipped < 0 || c.Deleted < 0 || c.Failed < 0 || c.BytesCopied < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if r.completedAt.Before(r.startedAt) {
		return fmt.Errorf("completed_at precedes started_at")
	}
	return nil
}
