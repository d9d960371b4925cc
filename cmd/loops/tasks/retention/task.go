package retention

import (
	"context"
	"log"
	"time"

	"github.com/picket-dev/picket/cmd/loops/metrics"
	"github.com/picket-dev/picket/cmd/loops/recurring"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

// Tally accumulates over the life of the loop.
type Tally struct {
	Passes    int
	Reclaimed int
	Failed    int
}

// initial value for task
func Seed() Tally {
	return Tally{}
}

// return:
//
// - task: reclaim artifacts older than ttl, one pass per cycle
func Task(
	logger *log.Logger,
	collector *retention.Collector,
	ttl time.Duration,
	clk clock.Clock,
	m *metrics.Retention,
) recurring.Task[Tally] {
	return func(ctx context.Context, tally Tally) (Tally, bool, error) {
		outcome, err := collector.Collect(ctx, ttl, clk.Now())

		tally.Passes += 1
		tally.Reclaimed += outcome.Deleted
		tally.Failed += outcome.Failed
		if m != nil {
			m.Passes.Inc()
			m.Reclaimed.Add(float64(outcome.Deleted))
			m.Failed.Add(float64(outcome.Failed))
		}

		for _, itemErr := range outcome.Errors {
			logger.Printf("could not reclaim %s", itemErr)
		}
		if err != nil {
			return tally, false, err
		}

		// rerun at once only while passes make progress; failures
		// alone wait for the cooldown instead of retrying hot.
		return tally, 0 < outcome.Deleted, nil
	}
}
