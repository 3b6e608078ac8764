package asyncx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/asyncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func TestRetry_SucceedsOnThirdAttempt(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0

	res := asyncx.Retry(context.Background(), asyncx.RetryPolicy{
		Attempts: 3,
		Delay:    2 * time.Second,
		Sleep:    sleeper.Sleep,
	}, func(ctx context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.delays)
}

func TestRetry_ExhaustsAndReturnsLastError(t *testing.T) {
	sleeper := &recordingSleeper{}
	var failures []int

	res := asyncx.Retry(context.Background(), asyncx.RetryPolicy{
		Attempts:  3,
		Delay:     time.Second,
		Sleep:     sleeper.Sleep,
		OnFailure: func(attempt int, err error) { failures = append(failures, attempt) },
	}, func(ctx context.Context, attempt int) error {
		return errors.New("boom")
	})

	require.Error(t, res.Err)
	assert.Equal(t, "boom", res.Err.Error())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []int{1, 2, 3}, failures)
	assert.Len(t, sleeper.delays, 2, "no delay after the final attempt")
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	res := asyncx.Retry(context.Background(), asyncx.RetryPolicy{}, func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	assert.True(t, res.OK())
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	res := asyncx.Retry(ctx, asyncx.RetryPolicy{
		Attempts: 5,
		Delay:    time.Millisecond,
	}, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithTimeout(t *testing.T) {
	_, err := asyncx.WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	v, err := asyncx.WithTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
