package llm

import (
	"context"
	"time"

	"aibox/internal/contextutil"
)

// RetryPolicy retries retryable failures with linear backoff.
// The zero value makes exactly one attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. Attempt n waits n*Backoff before running.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			contextutil.LoggerFromContext(ctx).DebugContext(ctx, "retrying request", "attempt", attempt+1, "error", err)
			timer := time.NewTimer(time.Duration(attempt) * p.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
