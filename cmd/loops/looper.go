package main

import (
	"context"
	"log"
	"time"

	"github.com/picket-dev/picket/cmd/loops/metrics"
	"github.com/picket-dev/picket/cmd/loops/recurring"
	taskret "github.com/picket-dev/picket/cmd/loops/tasks/retention"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/loop"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		return log.New(l.Writer(), l.Prefix(), l.Flags())
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

// Wrapper for monitoring loop tasks
//
//	Log the start and end of each time a task is executed. Essentially, it executes a task.
func monitor[T any](logger *log.Logger, task loop.Task[T]) loop.Task[T] {
	// counter for execution of the task
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		// func() capture the 'counter' variable
		counter += 1
		timestamp := time.Now()

		logger.Printf("task start: #0x%X: ", counter)

		// log at the end of the task
		defer func() {
			logger.Printf(
				"task end: #0x%X (takes %s): %s\n with value = %#v",
				counter, time.Since(timestamp), next, ret,
			)
		}()

		// execute the task specified by the argument
		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	// Policy for the looping
	Policy recurring.Policy

	// TTL of artifacts the loop reclaims
	TTL time.Duration

	// Metrics of the loop. Optional.
	Metrics *metrics.Retention
}

func StartRetentionLoop(
	ctx context.Context,
	logger *log.Logger,
	collector *retention.Collector,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[retention loop]"))
	_, err := loop.Start(
		ctx, taskret.Seed(),
		monitor(
			l,
			taskret.Task(
				l, collector, manifest.TTL, clock.System(), manifest.Metrics,
			).Applied(manifest.Policy),
		),
	)
	return err
}
