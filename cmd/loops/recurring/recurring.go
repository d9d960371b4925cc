// Package recurring turns "do one unit of work, report progress" tasks
// into pkg/loop tasks via scheduling policies.
package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/picket-dev/picket/pkg/loop"
)

// Task is one work cycle. The bool reports progress: true when the
// cycle did something and more work may be pending, false when the
// backlog is drained.
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied binds the task to a policy, yielding a loop.Task whose
// scheduling the policy decides from (progress, error) of each cycle.
func (task Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, value T) (T, loop.Next) {
		value, progressed, err := task(ctx, value)
		return value, p.Next(progressed, err)
	}
}

// Policy decides what the loop does after a cycle.
type Policy interface {
	Next(progressed bool, err error) loop.Next
	String() string
}

// ParsePolicy reads a policy from its flag spelling:
// "forever", "forever:COOLDOWN" (COOLDOWN as time.Duration), "backlog".
func ParsePolicy(s string) (Policy, error) {
	name, param, hasParam := strings.Cut(s, ":")
	switch name {
	case "forever":
		if !hasParam || param == "" {
			return Forever(0), nil
		}
		cooldown, err := time.ParseDuration(param)
		if err != nil {
			return nil, fmt.Errorf(`cannot parse %s as "forever:COOLDOWN": %w`, s, err)
		}
		return Forever(cooldown), nil
	case "backlog":
		if hasParam {
			return nil, fmt.Errorf("backlog policy takes no parameter: %s", s)
		}
		return Backlog(), nil
	default:
		return nil, fmt.Errorf("unknown policy: %s (want forever or backlog)", name)
	}
}

type foreverPolicy time.Duration

// Forever keeps the loop running: immediately again after a cycle
// with progress, after cooldown otherwise.
func Forever(cooldown time.Duration) Policy {
	return foreverPolicy(cooldown)
}

func (f foreverPolicy) Next(progressed bool, _ error) loop.Next {
	if progressed {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

func (f foreverPolicy) String() string {
	return "forever:" + time.Duration(f).String()
}

type backlogPolicy struct{}

// Backlog drains pending work and then stops: immediately again after
// progress, Break(nil) on the first cycle without any.
func Backlog() Policy {
	return backlogPolicy{}
}

func (backlogPolicy) Next(progressed bool, _ error) loop.Next {
	if progressed {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

func (backlogPolicy) String() string {
	return "backlog"
}

type untilErrorPolicy struct {
	base Policy
}

// UntilError makes any cycle error fatal to the loop; otherwise the
// base policy decides.
func UntilError(base Policy) Policy {
	return untilErrorPolicy{base: base}
}

func (u untilErrorPolicy) Next(progressed bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(progressed, nil)
}

func (u untilErrorPolicy) String() string {
	return u.base.String() + " (until error)"
}
