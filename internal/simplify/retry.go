package simplify

import (
	"context"
	"time"
)

// DefaultMaxRetries is the number of model call attempts.
const DefaultMaxRetries = 3

// Backoff returns the delay after failed attempt n (1-based): base * 2^n.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base * time.Duration(1<<uint(attempt))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
