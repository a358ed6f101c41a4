package temporalx

import (
	"context"
	"time"
)

// Backoff retries an operation with doubling sleeps until MaxWait has passed.
// MaxWait <= 0 means a single attempt.
type Backoff struct {
	MaxWait time.Duration
	Base    time.Duration
	Max     time.Duration
}

// Delay is the sleep before the attempt after the given one.
func (b Backoff) Delay(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if b.Max > 0 && sleep >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && sleep > b.Max {
		return b.Max
	}
	return sleep
}

// Do calls fn until it succeeds, returns an error retryable rejects, the
// deadline passes, or ctx is done. onRetry, if set, sees each failed attempt
// that will be retried.
func (b Backoff) Do(
	ctx context.Context,
	fn func(ctx context.Context, attempt int) error,
	retryable func(error) bool,
	onRetry func(attempt int, err error),
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(b.MaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if b.MaxWait <= 0 || time.Now().After(deadline) {
			return err
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		t := time.NewTimer(b.Delay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}
