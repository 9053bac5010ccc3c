package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Do runs fn up to attempts times, sleeping baseDelay*attempt between
// failures so each retry waits a bit longer than the last. Context
// cancellation stops the loop immediately and is never retried. op names
// the operation in log output.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, logger *slog.Logger, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		delay := baseDelay * time.Duration(attempt)
		logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return lastErr
}
