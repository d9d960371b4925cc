// Package clock injects "now" so that time-window behavior is
// deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed always reads t. For tests.
func Fixed(t time.Time) Clock {
	return fixedClock(t)
}

type fixedClock time.Time

func (f fixedClock) Now() time.Time {
	return time.Time(f)
}
