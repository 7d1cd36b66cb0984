package models

import (
	"fmt"
	"time"
)

// RunStatus is the lifecycle state of a wrapper invocation.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunMountFailed RunStatus = "mount_failed"
	RunCompleted   RunStatus = "completed"
	RunFailed      RunStatus = "failed"
)

// SyncRun records one mount → synchronize → unmount sequence.
//
// SyncStatus and UnmountStatus stay nil when the step never ran.
type SyncRun struct {
	base
	mountPoint    string
	commandLine   string
	status        RunStatus
	mountStatus   int
	syncStatus    *int
	unmountStatus *int
	exitStatus    int
	startedAt     time.Time
	completedAt   *time.Time
}

// NewSyncRun creates a running SyncRun for mountPoint and the synchronizer command line.
func NewSyncRun(sequence int, mountPoint, commandLine string) *SyncRun {
	return &SyncRun{
		base:        newBase(sequence),
		mountPoint:  mountPoint,
		commandLine: commandLine,
		status:      RunRunning,
		startedAt:   time.Now(),
	}
}

func (r *SyncRun) MountPoint() string      { return r.mountPoint }
func (r *SyncRun) CommandLine() string     { return r.commandLine }
func (r *SyncRun) Status() RunStatus       { return r.status }
func (r *SyncRun) MountStatus() int        { return r.mountStatus }
func (r *SyncRun) SyncStatus() *int        { return r.syncStatus }
func (r *SyncRun) UnmountStatus() *int     { return r.unmountStatus }
func (r *SyncRun) ExitStatus() int         { return r.exitStatus }
func (r *SyncRun) StartedAt() time.Time    { return r.startedAt }
func (r *SyncRun) CompletedAt() *time.Time { return r.completedAt }

func (r *SyncRun) SetMountStatus(code int)    { r.mountStatus = code }
func (r *SyncRun) SetSyncStatus(code int)     { r.syncStatus = &code }
func (r *SyncRun) SetUnmountStatus(code int)  { r.unmountStatus = &code }
func (r *SyncRun) SetStartedAt(t time.Time)   { r.startedAt = t }
func (r *SyncRun) SetCompletedAt(t time.Time) { r.completedAt = &t }

// SetStatus sets status directly; used when restoring rows.
func (r *SyncRun) SetStatus(s RunStatus) { r.status = s }

// Finish stamps the completion time and derives the final status from exitStatus.
func (r *SyncRun) Finish(exitStatus int) {
	r.exitStatus = exitStatus
	now := time.Now()
	r.completedAt = &now

	switch {
	case r.mountStatus != 0:
		r.status = RunMountFailed
	case exitStatus != 0:
		r.status = RunFailed
	default:
		r.status = RunCompleted
	}
}

// SetExitStatus sets the exit status without touching status; used when restoring rows.
func (r *SyncRun) SetExitStatus(code int) { r.exitStatus = code }

func (r *SyncRun) Validate() error {
	if r.mountPoint == "" {
		return fmt.Errorf("mount point is required")
	}
	if r.commandLine == "" {
		return fmt.Errorf("command line is required")
	}
	switch r.status {
	case RunRunning, RunMountFailed, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.status)
	}
	if r.completedAt != nil && r.completedAt.Before(r.startedAt) {
		return fmt.Errorf("completed_at precedes started_at")
	}
	return nil
}
