package apperr

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryBase  = time.Second
)

// RetryWithBackoff calls fn once and then up to maxRetries more times, waiting
// base*2^attempt between calls. The last error is returned once retries run out.
// Context cancellation stops the loop immediately.
func RetryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, fn func(ctx context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if base <= 0 {
		base = DefaultRetryBase
	}

	backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewExponential(base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return retry.RetryableError(err)
	})
}
