package github

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is an explicit retry configuration applied to every outbound
// GitHub call: a bounded number of attempts with exponential backoff.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// InitialDelay is the backoff interval before the first retry.
	InitialDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: 2 * time.Second}
}

// Do runs op under the policy. Retries stop early when ctx is cancelled or
// when op returns an error wrapped by Permanent.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	expo := backoff.NewExponentialBackOff()
	if p.InitialDelay > 0 {
		expo.InitialInterval = p.InitialDelay
	}

	b := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(attempts-1)), ctx)
	return backoff.Retry(op, b)
}

// Permanent marks an error as non-retryable, ending the retry loop
// immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
