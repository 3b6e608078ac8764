// Package asyncx provides small context-aware control-flow helpers for the
// service layer.
//
// # Retry
//
// [Retry] calls a function up to a fixed number of attempts with a fixed
// delay between failed attempts. The delay goes through a [Sleeper] so tests
// can observe every pause without waiting on a real clock.
//
//	res := asyncx.Retry(ctx, asyncx.RetryPolicy{
//	    Attempts: 3,
//	    Delay:    2 * time.Second,
//	}, func(ctx context.Context, attempt int) error {
//	    return session.Send(ctx, msg)
//	})
//	if !res.OK() {
//	    log.Printf("gave up after %d attempts: %v", res.Attempts, res.Err)
//	}
//
// # Timeout
//
// [WithTimeout] bounds a single blocking call with a deadline.
package asyncx
