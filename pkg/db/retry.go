// Package db holds the pieces shared by the store backends: the bounded
// retry loop used around slot transactions.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned when a transaction kept failing with
// transient contention after every allowed attempt.
var ErrRetriesExhausted = errors.New("transaction retries exhausted")

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Retry runs fn once plus up to MaxRetries more times while isTransient
// reports the failure as retryable. The wait grows linearly with the attempt.
func Retry(ctx context.Context, policy RetryPolicy, isTransient func(error) bool, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*policy.Backoff); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, policy.MaxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
