// Package loop runs a task repeatedly until the task or its context
// says stop.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task invocation:
// run again after a delay, or stop (with or without error).
//
// The zero value means "run again immediately".
type Next struct {
	err   error
	stop  bool
	delay time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.stop {
		return "[break] without error"
	}
	return fmt.Sprintf("[continue] after %s", n.delay)
}

// Continue schedules the next invocation after delay (0 = immediately).
func Continue(delay time.Duration) Next {
	return Next{delay: delay}
}

// Break stops the loop. err may be nil for a normal stop.
func Break(err error) Next {
	return Next{stop: true, err: err}
}

// Task is one loop body. It receives the value returned by the
// previous invocation (or the initial value) and returns the value for
// the next one, plus the loop directive.
type Task[T any] func(context.Context, T) (T, Next)

// Start calls task(ctx, value) until the task returns Break or ctx is
// done, threading the T value through invocations.
//
// It returns the last T together with the error from Break (nil for
// Break(nil)) or ctx.Err() when the context ends the loop. The delay
// between invocations is whatever the last Continue asked for;
// cancellation during the delay wins over the timer.
//
//	total, err := loop.Start(ctx, 0, func(_ context.Context, n int) (int, loop.Next) {
//		n += step()
//		if done() {
//			return n, loop.Break(nil)
//		}
//		return n, loop.Continue(time.Second)
//	})
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	value := init
	if err := ctx.Err(); err != nil {
		return value, err
	}

	for {
		var next Next
		value, next = invoke(ctx, task, value, options)
		if next.stop || next.err != nil {
			return value, next.err
		}

		timer := time.NewTimer(next.delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

// invoke runs the task once, with per-invocation options applied and
// their cleanups run before returning.
func invoke[T any](ctx context.Context, task Task[T], value T, options []Option) (T, Next) {
	cleanups := []func(){}
	defer func() {
		for i := len(cleanups) - 1; 0 <= i; i-- {
			cleanups[i]()
		}
	}()

	for _, opt := range options {
		var cleanup func()
		ctx, cleanup = opt(ctx)
		if cleanup != nil {
			cleanups = append(cleanups, cleanup)
		}
	}

	return task(ctx, value)
}

// Option derives the context a single task invocation runs under.
// The returned func, if any, is called after the invocation.
type Option func(context.Context) (context.Context, func())

// WithTimeout bounds each task invocation. The delay between
// invocations does not count against it.
func WithTimeout(d time.Duration) Option {
	return func(ctx context.Context) (context.Context, func()) {
		return context.WithTimeout(ctx, d)
	}
}
