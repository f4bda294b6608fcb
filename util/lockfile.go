package util

import (
	"context"
	"time"

	"github.com/gofrs/flock"

	"github.com/cradle-build/cradle/internal/errors"
)

// DefaultLockRetryDelay is how long to wait between attempts to take a lock held by another process.
const DefaultLockRetryDelay = 500 * time.Millisecond

// Lockfile is an advisory file lock held for the duration of a build so that two runs never write the same outputs.
type Lockfile struct {
	*flock.Flock
}

func NewLockfile(filename string) *Lockfile {
	return &Lockfile{
		flock.New(filename),
	}
}

// Lock blocks until the lock is taken or ctx is done.
func (lockfile *Lockfile) Lock(ctx context.Context, retryDelay time.Duration) error {
	locked, err := lockfile.TryLockContext(ctx, retryDelay)
	if err != nil {
		return errors.Errorf("unable to lock file %q: %w", lockfile.Path(), err)
	}

	if !locked {
		return errors.Errorf("unable to lock file %q, another cradle process may be running", lockfile.Path())
	}

	return nil
}

// Unlock releases the lock if it is held.
func (lockfile *Lockfile) Unlock() error {
	if !lockfile.Locked() {
		return nil
	}

	if err := lockfile.Flock.Unlock(); err != nil {
		return errors.New(err)
	}

	return nil
}

// AcquireLockfile creates the lock file, including its parent directory, and takes the lock.
func AcquireLockfile(ctx context.Context, filename string, retryDelay time.Duration) (*Lockfile, error) {
	if err := EnsureParentDirectory(filename); err != nil {
		return nil, err
	}

	lockfile := NewLockfile(filename)

	if err := lockfile.Lock(ctx, retryDelay); err != nil {
		return nil, err
	}

	return lockfile, nil
}
