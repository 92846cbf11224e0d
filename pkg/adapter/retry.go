package adapter

import (
	"context"
	"math/rand"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// retryPolicy retries transient provider failures with jittered
// exponential backoff. Permanent failures (auth, malformed input) abort
// immediately.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do runs fn up to maxAttempts times. transient decides whether a
// failure is worth another attempt. The delay doubles per retry with up
// to half a step of random jitter on top.
func (p retryPolicy) do(ctx context.Context, transient func(error) bool, fn func() error) error {
	var lastErr error
	delay := p.baseDelay

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
			if err := p.sleep(ctx, delay+jitter); err != nil {
				return goerr.Wrap(err, "embedding retry interrupted", goerr.T(model.TagEmbedding))
			}
			delay *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !transient(lastErr) {
			return lastErr
		}
	}

	return goerr.Wrap(lastErr, "embedding provider failed after retries",
		goerr.T(model.TagEmbedding),
		goerr.V("attempts", p.maxAttempts))
}
