package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds provider retries: Retries extra attempts, waiting
// Initial and doubling after each failure.
type RetryPolicy struct {
	Retries int
	Initial time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: 2, Initial: time.Second}
}

// Retry runs fn until it succeeds, returns an error retryable rejects, the
// policy is exhausted or ctx is done. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.Initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = policy.Initial << max(policy.Retries, 0)
	b.MaxElapsedTime = 0

	var bo backoff.BackOff = backoff.WithMaxRetries(b, uint64(max(policy.Retries, 0)))
	bo = backoff.WithContext(bo, ctx)

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

// TransientStatus retries rate limiting and 5xx answers.
func TransientStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}
