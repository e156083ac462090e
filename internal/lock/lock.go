// Package lock provides the advisory, cross-process exclusivity guard
// that keeps two concurrent migration runs from racing against the same
// target database. It is adapted from blueman82-conductor's
// internal/filelock.FileLock, trimmed to the lock/unlock operations this
// caller needs (its AtomicWrite/LockAndWrite helpers solve a different,
// unrelated problem: safe concurrent writes to a plan file).
package lock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// RunLock wraps a flock file lock for coordinating concurrent
// schemarunner invocations against the same database.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// New creates a run lock backed by the file at path. The file is created
// on first Lock/TryLock if it doesn't already exist; it is never written
// to, only used as a lock handle.
func New(path string) *RunLock {
	return &RunLock{flock: flock.New(path), path: path}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (l *RunLock) Lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("lock: failed to acquire lock on %s: %w", l.path, err)
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking. It returns
// false, not an error, if another process currently holds it.
func (l *RunLock) TryLock() (bool, error) {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("lock: failed to try lock on %s: %w", l.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (l *RunLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("lock: failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
