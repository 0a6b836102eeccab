package service

import (
	"context"
	"time"

	apperrors "parkspot/internal/errors"
)

const (
	readAttempts    = 3
	readBaseBackoff = 50 * time.Millisecond
)

// retryRead runs an idempotent read, retrying storage failures with
// exponential backoff. Other errors are returned at once.
func retryRead[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	backoff := readBaseBackoff
	for attempt := 1; attempt <= readAttempts; attempt++ {
		result, err = read(ctx)
		if err == nil || !apperrors.IsStorage(err) || attempt == readAttempts {
			return result, err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, err
		case <-timer.C:
		}
		backoff *= 2
	}
	return result, err
}
