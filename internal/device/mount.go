package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/playersync/internal/shared"
)

// runCommand executes a system command with the caller's stdio attached.
// It is a package-level variable so tests can replace it with a stub.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// mountsFile lists active mounts.
var mountsFile = "/proc/mounts"

// Mounter mounts and unmounts a mount point.
type Mounter interface {
	Mount(ctx context.Context, point string) error
	Unmount(ctx context.Context, point string) error
}

// CommandMounter implements [Mounter] by invoking external tools, e.g. mount(8) and umount(8),
// with the mount point appended as the last argument.
//
// Returned errors wrap the tool's error, so an [*exec.ExitError] and its exit code survive [errors.As].
type CommandMounter struct {
	mountCmd   []string
	unmountCmd []string
	logger     *log.Logger
}

// NewCommandMounter creates a [CommandMounter]. Empty commands default to "mount" and "umount".
func NewCommandMounter(mountCmd, unmountCmd []string, logger *log.Logger) *CommandMounter {
	if len(mountCmd) == 0 {
		mountCmd = []string{"mount"}
	}
	if len(unmountCmd) == 0 {
		unmountCmd = []string{"umount"}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CommandMounter{mountCmd: mountCmd, unmountCmd: unmountCmd, logger: logger}
}

// Mount runs the mount command for point.
func (m *CommandMounter) Mount(ctx context.Context, point string) error {
	if mounted, err := IsMounted(point); err == nil && mounted {
		m.logger.Warn("Mount point already in use", "mount_point", point)
	}

	m.logger.Debug("Mounting", "mount_point", point, "command", m.mountCmd[0])
	if err := invoke(ctx, m.mountCmd, point); err != nil {
		return fmt.Errorf("mount %s: %w", point, err)
	}
	return nil
}

// Unmount runs the unmount command for point. It is never retried.
func (m *CommandMounter) Unmount(ctx context.Context, point string) error {
	m.logger.Debug("Unmounting", "mount_point", point, "command", m.unmountCmd[0])
	if err := invoke(ctx, m.unmountCmd, point); err != nil {
		return fmt.Errorf("umount %s: %w", point, err)
	}
	return nil
}

func invoke(ctx context.Context, command []string, point string) error {
	args := append(append([]string{}, command[1:]...), point)
	return runCommand(ctx, command[0], args...)
}

// IsMounted reports whether point appears as a mount target in /proc/mounts.
func IsMounted(point string) (bool, error) {
	f, err := os.Open(mountsFile)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return parseMounts(f, point)
}

func parseMounts(r io.Reader, point string) (bool, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if unescapeMountField(fields[1]) == point {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// unescapeMountField decodes the octal escapes the kernel uses for whitespace and backslashes.
func unescapeMountField(s string) string {
	return strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`).Replace(s)
}
