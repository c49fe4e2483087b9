package readinglist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"readq/internal/notes"
)

const lockRetryDelay = 20 * time.Millisecond

// WithWriteLock makes every queue mutation hold an exclusive flock on path,
// so the CLI and readqd never interleave position updates.
func WithWriteLock(path string) Option {
	return func(s *Service) {
		s.lockPath = path
	}
}

func (s *Service) update(ctx context.Context, fn func(*notes.Tx) error) error {
	if s.lockPath == "" {
		return s.store.Update(ctx, fn)
	}
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !ok {
		return errors.New("acquire write lock: lock held elsewhere")
	}
	defer func() { _ = lock.Unlock() }()
	return s.store.Update(ctx, fn)
}
