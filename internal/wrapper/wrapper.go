package wrapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/playersync/internal/device"
	"github.com/desertthunder/playersync/internal/models"
	"github.com/desertthunder/playersync/internal/shared"
)

// Locker guards a run against concurrent runs.
type Locker interface {
	TryLock() error
	Unlock() error
}

// Recorder persists run history.
type Recorder interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
}

// Config is the fixed part of every run.
type Config struct {
	MountPoint string
	Command    []string // synchronizer executable followed by any leading arguments
	Args       []string // fixed synchronizer flags, placed before forwarded arguments
	Strict     bool     // a failed synchronizer fails the run even when unmount succeeds
}

// Outcome records the status of each step of a run.
type Outcome struct {
	MountStatus   int
	SyncRan       bool
	SyncStatus    int
	UnmountStatus int
	ExitStatus    int
	Duration      time.Duration
}

// Wrapper runs the mount, synchronize, unmount sequence.
type Wrapper struct {
	cfg      Config
	mounter  device.Mounter
	executor Executor
	locker   Locker
	recorder Recorder
	logger   *log.Logger
	output   io.Writer
}

// Option configures optional [Wrapper] collaborators.
type Option func(*Wrapper)

// WithLocker takes l before mounting and releases it when the run ends.
func WithLocker(l Locker) Option { return func(w *Wrapper) { w.locker = l } }

// WithRecorder stores each run. Recording failures are logged and never change the exit status.
func WithRecorder(r Recorder) Option { return func(w *Wrapper) { w.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(w *Wrapper) { w.logger = l } }

// WithOutput sets where the status line is printed. Defaults to [os.Stdout].
func WithOutput(out io.Writer) Option { return func(w *Wrapper) { w.output = out } }

// New creates a [Wrapper].
func New(cfg Config, mounter device.Mounter, executor Executor, opts ...Option) *Wrapper {
	w := &Wrapper{
		cfg:      cfg,
		mounter:  mounter,
		executor: executor,
		output:   os.Stdout,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = shared.NewLogger(io.Discard)
	}
	return w
}

// Argv returns the synchronizer arguments for forwarded: leading command arguments,
// the fixed flags, then forwarded verbatim and in order.
func (w *Wrapper) Argv(forwarded []string) []string {
	argv := make([]string, 0, len(w.cfg.Command)-1+len(w.cfg.Args)+len(forwarded))
	argv = append(argv, w.cfg.Command[1:]...)
	argv = append(argv, w.cfg.Args...)
	argv = append(argv, forwarded...)
	return argv
}

// Run performs one cycle. A non-nil [*ExitError] carries a non-zero exit status;
// other errors mean the run never started.
func (w *Wrapper) Run(ctx context.Context, forwarded []string) (*Outcome, error) {
	if w.cfg.MountPoint == "" || len(w.cfg.Command) == 0 {
		return nil, fmt.Errorf("%w: mount point and synchronizer command are required", shared.ErrInvalidConfig)
	}

	if w.locker != nil {
		if err := w.locker.TryLock(); err != nil {
			return nil, err
		}
		defer func() {
			if err := w.locker.Unlock(); err != nil {
				w.logger.Warn("Failed to release run lock", "error", err)
			}
		}()
	}

	start := time.Now()
	name := w.cfg.Command[0]
	argv := w.Argv(forwarded)
	outcome := &Outcome{}

	run := models.NewSyncRun(0, w.cfg.MountPoint, strings.Join(append([]string{name}, argv...), " "))
	w.record(run, true)

	logger := shared.WithLogger(w.logger, "mount_point", w.cfg.MountPoint)

	if err := w.mounter.Mount(ctx, w.cfg.MountPoint); err != nil {
		outcome.MountStatus = exitStatus(err)
		outcome.ExitStatus = outcome.MountStatus
		outcome.Duration = time.Since(start)
		logger.Error("Mount failed", "status", outcome.MountStatus, "error", err)

		run.SetMountStatus(outcome.MountStatus)
		run.Finish(outcome.ExitStatus)
		w.record(run, false)
		return outcome, &ExitError{Code: outcome.ExitStatus, Err: fmt.Errorf("%w: %w", shared.ErrMountFailed, err)}
	}
	logger.Info("Mounted")

	logger.Info("Synchronizing", "command", name, "args", argv)
	outcome.SyncRan = true
	if err := w.executor.Execute(ctx, name, argv); err != nil {
		outcome.SyncStatus = exitStatus(err)
		logger.Warn("Synchronizer failed", "status", outcome.SyncStatus, "error", err)
	} else {
		logger.Info("Synchronizer finished")
	}
	run.SetSyncStatus(outcome.SyncStatus)

	fmt.Fprintf(w.output, "Unmounting %s...\n", w.cfg.MountPoint)

	// The device must be released even when the run was interrupted.
	unmountErr := w.mounter.Unmount(context.WithoutCancel(ctx), w.cfg.MountPoint)
	outcome.UnmountStatus = exitStatus(unmountErr)
	if unmountErr != nil {
		logger.Error("Unmount failed", "status", outcome.UnmountStatus, "error", unmountErr)
	} else {
		logger.Info("Unmounted")
	}
	run.SetUnmountStatus(outcome.UnmountStatus)

	outcome.ExitStatus = outcome.UnmountStatus
	if w.cfg.Strict && outcome.ExitStatus == 0 && outcome.SyncStatus != 0 {
		outcome.ExitStatus = outcome.SyncStatus
	}
	outcome.Duration = time.Since(start)

	run.Finish(outcome.ExitStatus)
	w.record(run, false)

	logger.Debug("Run finished", "exit_status", outcome.ExitStatus, "duration", outcome.Duration)

	switch {
	case outcome.ExitStatus == 0:
		return outcome, nil
	case unmountErr != nil:
		return outcome, &ExitError{Code: outcome.ExitStatus, Err: fmt.Errorf("%w: %w", shared.ErrUnmountFailed, unmountErr)}
	default:
		return outcome, &ExitError{Code: outcome.ExitStatus, Err: fmt.Errorf("synchronizer exited with status %d", outcome.SyncStatus)}
	}
}

func (w *Wrapper) record(run *models.SyncRun, create bool) {
	if w.recorder == nil {
		return
	}

	var err error
	if create {
		err = w.recorder.Create(run)
	} else if run.ID() != "" {
		err = w.recorder.Update(run)
	}
	if err != nil {
		w.logger.Warn("Failed to record run", "error", err)
	}
}
