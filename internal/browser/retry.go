package browser

import (
	"context"
	"fmt"
	"time"
)

// retrier runs an operation a bounded number of times with a fixed
// delay between attempts. The sleep function is injectable for tests.
type retrier struct {
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func newRetrier(attempts int, delay time.Duration) *retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &retrier{
		attempts: attempts,
		delay:    delay,
		sleep:    sleepContext,
	}
}

// do runs fn until it succeeds or attempts are exhausted. onRetry is
// called before each sleep with the attempt number and its error.
func (r *retrier) do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < r.attempts {
			if onRetry != nil {
				onRetry(attempt, lastErr)
			}
			if err := r.sleep(ctx, r.delay); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", r.attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
