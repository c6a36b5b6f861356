package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// LockFileName is created inside the git directory while a run is in progress
	LockFileName = "tagpush.lock"
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// ErrLocked is returned when another run holds the repository lock.
var ErrLocked = errors.New("another tagpush run is in progress")

// RunLock is an exclusive, cross-process lock on one repository.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the lock file in gitDir, waiting up to timeout.
func AcquireRunLock(ctx context.Context, fs afero.Fs, gitDir string, timeout time.Duration) (*RunLock, error) {
	exists, err := afero.DirExists(fs, gitDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check git dir %s: %w", gitDir, err)
	}
	if !exists {
		return nil, fmt.Errorf("git dir %s does not exist", gitDir)
	}
	lock := flock.New(filepath.Join(gitDir, LockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, LockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}
	return &RunLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.lock.Path()
}

// Release unlocks the lock file. The file itself is left in place.
func (l *RunLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
