package device

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/desertthunder/playersync/internal/shared"
)

// Lock is an exclusive advisory lock on a file, held for the length of one sync run.
type Lock struct {
	path string
	lock *flock.Flock
}

// NewLock creates a [Lock] for path, creating its directory if needed.
func NewLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return &Lock{path: path, lock: flock.New(path)}, nil
}

// TryLock acquires the lock without waiting, returning [shared.ErrLocked] when another process holds it.
func (l *Lock) TryLock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", shared.ErrLocked, l.path)
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	return l.lock.Unlock()
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}
