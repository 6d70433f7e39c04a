package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// LinearBackoff builds the delay schedule used between retry attempts:
// base*1, base*2, and so on, one entry per attempt.
func LinearBackoff(base time.Duration, attempts int) []time.Duration {
	delays := make([]time.Duration, attempts)
	for i := 0; i < attempts; i++ {
		delays[i] = base * time.Duration(i+1)
	}
	return delays
}

// Retry runs function once per entry in attemptDelays, sleeping the entry's
// delay between attempts. onFinished decides whether the result warrants
// another attempt; returning false stops immediately with that result.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	for _, delay := range attemptDelays {
		if ctx.Err() != nil {
			var res T
			return res, fmt.Errorf("retry canceled: %w", ctx.Err())
		}
		res, err := function(ctx)
		if !onFinished(res, err) {
			return res, err
		}
		if err := SleepCtx(ctx, delay); err != nil {
			var res T
			return res, err
		}
	}
	var res T
	return res, ErrAllAttemptsFailed
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
