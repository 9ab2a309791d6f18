// Package retry runs an operation repeatedly with a pluggable backoff
// schedule until it succeeds, the attempts run out, or the context ends.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds a retried operation.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// Backoff maps the just-failed attempt number (1-based) to the pause
	// before the next try.
	Backoff func(attempt int) time.Duration
}

// LinearBackoff waits step, 2*step, 3*step between successive attempts.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Do runs op until it returns nil or the policy is exhausted. The last
// error is returned wrapped with the attempt count. Context cancellation
// interrupts both the operation gap and further attempts.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.backoff(attempt)); err != nil {
			return err
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

func (p Policy) backoff(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
