// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/playersync/internal/models"
)

// CallLog records the order of external operations across several doubles.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) Add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// LogWriter buffers output and records each write in Log as "print <text>",
// so printed lines can be ordered against other recorded calls.
type LogWriter struct {
	Log *CallLog
	bytes.Buffer
}

func (w *LogWriter) Write(p []byte) (int, error) {
	w.Log.Add("print " + strings.TrimRight(string(p), "\n"))
	return w.Buffer.Write(p)
}

// StatusError is an error carrying a process exit status, like [*exec.ExitError].
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
func (e *StatusError) ExitCode() int { return e.Code }

// MockMounter is a test double for [device.Mounter]
type MockMounter struct {
	Log        *CallLog
	MountErr   error
	UnmountErr error
	Mounts     []string
	Unmounts   []string
}

func (m *MockMounter) Mount(ctx context.Context, point string) error {
	m.Log.Add("mount " + point)
	m.Mounts = append(m.Mounts, point)
	return m.MountErr
}

func (m *MockMounter) Unmount(ctx context.Context, point string) error {
	m.Log.Add("umount " + point)
	m.Unmounts = append(m.Unmounts, point)
	return m.UnmountErr
}

// Invocation is one recorded call to [MockExecutor.Execute].
type Invocation struct {
	Name string
	Args []string
}

// MockExecutor is a test double for [wrapper.Executor]
type MockExecutor struct {
	Log   *CallLog
	Err   error
	Calls []Invocation
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args []string) error {
	m.Log.Add("exec " + name)
	m.Calls = append(m.Calls, Invocation{Name: name, Args: append([]string(nil), args...)})
	return m.Err
}

// MockLocker is a test double for [wrapper.Locker]
type MockLocker struct {
	Err      error
	Locked   int
	Unlocked int
}

func (m *MockLocker) TryLock() error {
	if m.Err != nil {
		return m.Err
	}
	m.Locked++
	return nil
}

func (m *MockLocker) Unlock() error {
	m.Unlocked++
	return nil
}

// MockRecorder is a test double for [wrapper.Recorder]
type MockRecorder struct {
	Err     error
	Created []*models.SyncRun
	Updated []*models.SyncRun
}

func (m *MockRecorder) Create(run *models.SyncRun) error {
	m.Created = append(m.Created, run)
	if m.Err == nil {
		run.SetID(fmt.Sprintf("run-%d", len(m.Created)))
	}
	return m.Err
}

func (m *MockRecorder) Update(run *models.SyncRun) error {
	m.Updated = append(m.Updated, run)
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
