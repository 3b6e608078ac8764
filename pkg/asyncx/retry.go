package asyncx

import (
	"context"
	"time"
)

// Sleeper pauses for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-clock Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
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

// RetryPolicy bounds a retry loop.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first. Values
	// below 1 are treated as 1.
	Attempts int
	// Delay is the fixed pause between a failed attempt and the next one.
	Delay time.Duration
	// Sleep defaults to the real clock.
	Sleep Sleeper
	// OnFailure, when set, is called after every failed attempt.
	OnFailure func(attempt int, err error)
}

// RetryResult is the outcome of a retry loop: success after Attempts calls,
// or the last error once the bound is exhausted.
type RetryResult struct {
	Attempts int
	Err      error
}

// OK reports whether the last attempt succeeded.
func (r RetryResult) OK() bool { return r.Err == nil }

// Retry calls fn until it succeeds or the policy's attempt bound is reached.
// The context is checked before every attempt and during every delay; a
// cancellation ends the loop with ctx.Err().
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) error) RetryResult {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RetryResult{Attempts: attempt - 1, Err: ctxErr}
		}

		err = fn(ctx, attempt)
		if err == nil {
			return RetryResult{Attempts: attempt}
		}
		if policy.OnFailure != nil {
			policy.OnFailure(attempt, err)
		}

		if attempt < attempts {
			if sleepErr := sleep(ctx, policy.Delay); sleepErr != nil {
				return RetryResult{Attempts: attempt, Err: sleepErr}
			}
		}
	}
	return RetryResult{Attempts: attempts, Err: err}
}

// WithTimeout runs fn with a deadline of d.
// Returns context.DeadlineExceeded if fn does not finish in time.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type res struct {
		v   T
		err error
	}

	ch := make(chan res, 1)
	go func() {
		v, err := fn(ctx)
		ch <- res{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
