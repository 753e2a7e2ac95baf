// Package watchdog bounds potentially-hanging operations. The conversation
// loop uses it around audio capture and backend calls, both of which talk
// to external processes that can stall indefinitely.
package watchdog

import (
	"context"
	"errors"
	"time"
)

// ErrHung is returned when the wrapped operation exceeds its time budget.
var ErrHung = errors.New("watchdog: operation hung")

// Config bounds a single guarded run. The total budget is
// Primary + Secondary + Margin.
type Config struct {
	Primary   time.Duration // time the operation is expected to need
	Secondary time.Duration // extra time it may legitimately take
	Margin    time.Duration // slack on top; defaults to 10s
	Poll      time.Duration // status tick interval; defaults to 1s

	// OnStatus is invoked once per poll tick with the time spent so far and
	// the time left in the budget. It may be called from the watchdog's
	// goroutine and must be safe to use concurrently.
	OnStatus func(elapsed, remaining time.Duration)
}

func (c Config) budget() time.Duration {
	m := c.Margin
	if m <= 0 {
		m = 10 * time.Second
	}
	return c.Primary + c.Secondary + m
}

// Run executes op on its own goroutine and waits at most the configured
// budget for it to finish. The context handed to op is cancelled once the
// budget is spent so cooperative callees can stop promptly; one that
// ignores it is abandoned, not killed. An error from op surfaces to the
// caller once the polling loop observes completion. On budget expiry Run
// fails with ErrHung.
func Run[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}

	poll := cfg.Poll
	if poll <= 0 {
		poll = time.Second
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		v, err := op(opCtx)
		done <- outcome{val: v, err: err}
	}()

	start := time.Now()
	deadline := start.Add(cfg.budget())

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case out := <-done:
			return out.val, out.err

		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()

		case now := <-ticker.C:
			if cfg.OnStatus != nil {
				cfg.OnStatus(now.Sub(start), deadline.Sub(now))
			}
			if !now.Before(deadline) {
				var zero T
				return zero, ErrHung
			}
		}
	}
}
