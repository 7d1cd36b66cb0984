package wrapper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
)

// Executor runs the synchronizer.
type Executor interface {
	Execute(ctx context.Context, name string, args []string) error
}

// CommandExecutor implements [Executor] with a child process that inherits the caller's stdio.
type CommandExecutor struct{}

func (CommandExecutor) Execute(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ExitError carries the process exit status out of a run. It satisfies urfave/cli's ExitCoder.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func (e *ExitError) ExitCode() int { return e.Code }

// exitStatus maps an invocation error to a shell-style exit status.
//
// Errors carrying an exit code keep it. A command that cannot be found is 127.
// Anything else, including death by signal, is 1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}

	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
		return 1
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return 127
	}
	return 1
}
