// Package runlock enforces single-instance pipeline runs with a lock file.
// Two updates against the same manifest would race on the final write, so
// commands that mutate the manifest take this lock first.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process already holds the lock.
var ErrHeld = errors.New("another lessonlink run is already in progress")

// Lock is a file-based mutual exclusion handle.
type Lock struct {
	path string
	lock *flock.Flock
}

// New builds a lock at path without acquiring it.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. ErrHeld is returned when a
// concurrent run holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
