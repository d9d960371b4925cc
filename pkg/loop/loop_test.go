package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/picket-dev/picket/pkg/loop"
	"github.com/picket-dev/picket/pkg/utils/try"
)

func TestStart(t *testing.T) {
	t.Run("it threads the value through invocations until Break", func(t *testing.T) {
		ctx := context.Background()

		actual := try.To(loop.Start(ctx, 1, func(_ context.Context, n int) (int, loop.Next) {
			n += 1
			if 10 <= n {
				return n, loop.Break(nil)
			}
			return n, loop.Continue(0)
		})).OrFatal(t)

		if actual != 10 {
			t.Errorf("last value: got %d, expected 10", actual)
		}
	})

	t.Run("it returns the error in Break together with the last value", func(t *testing.T) {
		ctx := context.Background()
		expectedErr := errors.New("fake error")

		actual, err := loop.Start(ctx, 0, func(_ context.Context, n int) (int, loop.Next) {
			if n == 3 {
				return n, loop.Break(expectedErr)
			}
			return n + 1, loop.Continue(0)
		})

		if !errors.Is(err, expectedErr) {
			t.Errorf("error: got %v, expected %v", err, expectedErr)
		}
		if actual != 3 {
			t.Errorf("last value: got %d, expected 3", actual)
		}
	})

	t.Run("it does not invoke the task when the context is already done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		invoked := false
		actual, err := loop.Start(ctx, 42, func(context.Context, int) (int, loop.Next) {
			invoked = true
			return 0, loop.Break(nil)
		})

		if invoked {
			t.Error("the task has been invoked")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error: got %v, expected %v", err, context.Canceled)
		}
		if actual != 42 {
			t.Errorf("last value: got %d, expected the initial value 42", actual)
		}
	})

	t.Run("it stops during the delay when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := loop.Start(ctx, 0, func(_ context.Context, n int) (int, loop.Next) {
			cancel()
			return n + 1, loop.Continue(24 * time.Hour)
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("error: got %v, expected %v", err, context.Canceled)
		}
	})

	t.Run("WithTimeout bounds each invocation separately", func(t *testing.T) {
		ctx := context.Background()

		deadlines := []time.Time{}
		try.To(loop.Start(ctx, 0, func(ctx context.Context, n int) (int, loop.Next) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Fatal("the task context has no deadline")
			}
			deadlines = append(deadlines, deadline)
			if 2 <= n {
				return n, loop.Break(nil)
			}
			return n + 1, loop.Continue(10 * time.Millisecond)
		}, loop.WithTimeout(time.Hour))).OrFatal(t)

		if len(deadlines) != 3 {
			t.Fatalf("invocations: got %d, expected 3", len(deadlines))
		}
		for i := 1; i < len(deadlines); i++ {
			if !deadlines[i-1].Before(deadlines[i]) {
				t.Errorf(
					"deadline should be renewed per invocation: #%d %s, #%d %s",
					i-1, deadlines[i-1], i, deadlines[i],
				)
			}
		}
	})

	t.Run("a task exceeding WithTimeout sees its context expire", func(t *testing.T) {
		ctx := context.Background()

		_, err := loop.Start(ctx, 0, func(ctx context.Context, n int) (int, loop.Next) {
			<-ctx.Done()
			return n, loop.Break(ctx.Err())
		}, loop.WithTimeout(time.Millisecond))

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error: got %v, expected %v", err, context.DeadlineExceeded)
		}
	})
}
