// Package helper carries small domain-neutral building blocks shared by the
// use cases.
package helper

import (
	"context"
	"errors"
	"time"

	"VakitApp/internal/domain/model"
)

// BackoffFunc returns how long to wait before the given retry attempt.
// Attempts are numbered starting at 1.
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits base×attempt: base, 2×base, 3×base, ...
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not worth retrying; Retry stops immediately and
// returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs op up to maxAttempts times. Between attempts it waits according
// to backoff, except for rate-limited upstream errors, which get the longer
// cooldown instead. Cancellation of ctx aborts the wait and is returned as
// the context error.
func Retry(ctx context.Context, maxAttempts int, backoff, cooldown BackoffFunc, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		var wait time.Duration
		var upstream *model.UpstreamError
		if errors.As(err, &upstream) && upstream.RateLimited {
			wait = cooldown(attempt)
		} else {
			wait = backoff(attempt)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Sleep waits for d or until ctx is cancelled. Exposed for the fixed
// inter-request delay of the batch fetcher.
func Sleep(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}
