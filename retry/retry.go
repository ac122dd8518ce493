package retry

import (
	"context"
	"fmt"
	"time"
)

// Do calls f until it succeeds, retries is exhausted or ctx is done.
func Do(ctx context.Context, f func(ctx context.Context) error, retries int, backoff time.Duration) error {
	err := f(ctx)
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", i+1, err)
		case <-time.After(backoff):
		}
		err = f(ctx)
	}

	if err != nil {
		return fmt.Errorf("retried for %d times: %w", retries, err)
	}
	return nil
}
