package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultRetryAttempts = 15
	DefaultRetryInterval = 5 * time.Second
)

// RetryPolicy retries an operation at a constant interval up to MaxAttempts
// attempts in total.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	// FailFast marks errors that must not be retried. Nil retries everything.
	FailFast func(error) bool
}

func NewRetryPolicy(maxAttempts int, interval time.Duration) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts, Interval: interval}
}

func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(DefaultRetryAttempts, DefaultRetryInterval)
}

// WithFailFast returns a copy of the policy that stops on errors matched by f.
func (p RetryPolicy) WithFailFast(f func(error) bool) RetryPolicy {
	p.FailFast = f
	return p
}

// Do runs op until it succeeds, the attempts are exhausted, a fail-fast error
// is returned or ctx is done. onFailure, when set, sees every failed attempt.
// The returned error is the last failure, or ctx.Err() on cancellation.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error, onFailure func(attempt int, err error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(attempts-1)),
		ctx,
	)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if p.FailFast != nil && p.FailFast(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
