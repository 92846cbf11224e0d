package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestRetryPolicyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := retryPolicy{
		maxAttempts: 3,
		baseDelay:   time.Millisecond,
		sleep:       sleepContext,
	}

	attempts := 0
	err := policy.do(ctx, func(error) bool { return true }, func() error {
		attempts++
		return goerr.New("transient")
	})

	gt.Error(t, err)
	// The first attempt runs before any backoff; the cancelled context
	// stops the loop at the first sleep.
	gt.Equal(t, attempts, 1)
}

func TestRetryPolicyBackoffDoubles(t *testing.T) {
	var delays []time.Duration
	policy := retryPolicy{
		maxAttempts: 3,
		baseDelay:   10 * time.Millisecond,
		sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	err := policy.do(context.Background(), func(error) bool { return true }, func() error {
		return goerr.New("transient")
	})
	gt.Error(t, err)
	gt.A(t, delays).Length(2)

	// Jitter adds at most half a step on top of the doubled base.
	gt.True(t, delays[0] >= 10*time.Millisecond && delays[0] <= 15*time.Millisecond)
	gt.True(t, delays[1] >= 20*time.Millisecond && delays[1] <= 30*time.Millisecond)
}
