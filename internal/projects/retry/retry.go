// Package retry wraps a single fallible storage operation with bounded
// exponential-backoff retry. Only errors classified retryable by the
// domain taxonomy are retried; terminal errors propagate immediately.
package retry

import (
	"context"
	"time"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

// Policy bounds the retry loop. MaxRetries counts attempts beyond the
// first; the delay starts at InitialDelay and multiplies by Multiplier
// per attempt, capped at MaxDelay.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy matches the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// Do runs fn, retrying retryable failures per the policy. Terminal
// failures and retry exhaustion come back wrapped in a
// domain.StoreOperationError naming op and the attempt count.
func Do(ctx context.Context, op string, p Policy, fn func(context.Context) error) error {
	delay := p.InitialDelay

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if !domain.IsRetryable(err) || attempt > p.MaxRetries {
			return &domain.StoreOperationError{Op: op, Attempts: attempt, Err: err}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return &domain.StoreOperationError{Op: op, Attempts: attempt, Err: ctx.Err()}
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}
