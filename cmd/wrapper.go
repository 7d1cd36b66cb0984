package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playersync/internal/device"
	"github.com/desertthunder/playersync/internal/repositories"
	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/wrapper"
)

// Run mounts the player, runs the synchronizer once with the caller's arguments, and unmounts.
//
// The returned [*wrapper.ExitError] carries the process exit status back to main.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	command, err := r.synchronizerCommand()
	if err != nil {
		return err
	}

	opts := []wrapper.Option{
		wrapper.WithLogger(r.logger),
		wrapper.WithOutput(r.output),
	}

	if path := r.config.Wrapper.LockPath; path != "" {
		lock, err := device.NewLock(path)
		if err != nil {
			return err
		}
		opts = append(opts, wrapper.WithLocker(lock))
	}

	db, err := r.openDatabase()
	switch {
	case err == nil:
		defer db.Close()
		opts = append(opts, wrapper.WithRecorder(repositories.NewRunRepository(db)))
	case errors.Is(err, shared.ErrDatabaseDisabled):
	default:
		r.logger.Warn("run history unavailable", "error", err)
	}

	mounter := r.mounter
	if mounter == nil {
		mounter = device.NewCommandMounter(r.config.Wrapper.MountCommand, r.config.Wrapper.UnmountCommand, r.logger)
	}
	executor := r.executor
	if executor == nil {
		executor = wrapper.CommandExecutor{}
	}

	w := wrapper.New(wrapper.Config{
		MountPoint: r.config.Wrapper.MountPoint,
		Command:    command,
		Args:       r.config.Synchronizer.Args(),
		Strict:     r.config.Wrapper.Strict,
	}, mounter, executor, opts...)

	outcome, err := w.Run(ctx, cmd.Args().Slice())
	if outcome != nil {
		r.logger.Info("run finished",
			"mount_status", outcome.MountStatus,
			"sync_status", outcome.SyncStatus,
			"unmount_status", outcome.UnmountStatus,
			"exit_status", outcome.ExitStatus,
			"duration", outcome.Duration,
		)
	}
	return err
}

// synchronizerCommand returns the configured synchronizer, or this binary's own sync subcommand
// with the active config file.
func (r *Runner) synchronizerCommand() ([]string, error) {
	if len(r.config.Synchronizer.Command) > 0 {
		return r.config.Synchronizer.Command, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve synchronizer executable: %w", err)
	}

	command := []string{exe}
	if r.configPath != "" {
		command = append(command, "--config", r.configPath)
	}
	return append(command, "sync"), nil
}
