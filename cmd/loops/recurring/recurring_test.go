package recurring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/picket-dev/picket/cmd/loops/recurring"
	"github.com/picket-dev/picket/pkg/loop"
)

func TestParsePolicy(t *testing.T) {
	for name, testcase := range map[string]struct {
		when        string
		then        recurring.Policy
		expectError bool
	}{
		"forever parses to Forever without cooldown": {
			when: "forever",
			then: recurring.Forever(0),
		},
		"forever:3s parses to Forever with a 3 second cooldown": {
			when: "forever:3s",
			then: recurring.Forever(3 * time.Second),
		},
		"forever with a non-duration cooldown is rejected": {
			when:        "forever:someday",
			expectError: true,
		},
		"backlog parses to Backlog": {
			when: "backlog",
			then: recurring.Backlog(),
		},
		"backlog with a parameter is rejected": {
			when:        "backlog:3s",
			expectError: true,
		},
		"the empty string is rejected": {
			when:        "",
			expectError: true,
		},
		"an unknown policy name is rejected": {
			when:        "sometimes",
			expectError: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual, err := recurring.ParsePolicy(testcase.when)

			if testcase.expectError {
				if err == nil {
					t.Fatalf("parsing %q did not fail", testcase.when)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if actual != testcase.then {
				t.Errorf("policy: got %v, expected %v", actual, testcase.then)
			}
		})
	}
}

func TestPolicies(t *testing.T) {
	for name, testcase := range map[string]struct {
		testee recurring.Policy
		when   struct {
			progressed bool
			err        error
		}
		then loop.Next
	}{
		"Forever reruns immediately on progress": {
			testee: recurring.Forever(3 * time.Second),
			when:   progress(true, nil),
			then:   loop.Continue(0),
		},
		"Forever waits out the cooldown without progress": {
			testee: recurring.Forever(3 * time.Second),
			when:   progress(false, nil),
			then:   loop.Continue(3 * time.Second),
		},
		"Backlog reruns immediately on progress": {
			testee: recurring.Backlog(),
			when:   progress(true, nil),
			then:   loop.Continue(0),
		},
		"Backlog stops when the backlog is drained": {
			testee: recurring.Backlog(),
			when:   progress(false, nil),
			then:   loop.Break(nil),
		},
		"UntilError defers to the base policy without error": {
			testee: recurring.UntilError(recurring.Forever(3 * time.Second)),
			when:   progress(false, nil),
			then:   loop.Continue(3 * time.Second),
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := testcase.testee.Next(testcase.when.progressed, testcase.when.err)
			if actual != testcase.then {
				t.Errorf("next: got %v, expected %v", actual, testcase.then)
			}
		})
	}

	t.Run("UntilError breaks with the cycle's error", func(t *testing.T) {
		expected := errors.New("fake error")
		testee := recurring.UntilError(recurring.Forever(0))

		if actual := testee.Next(true, expected); actual != loop.Break(expected) {
			t.Errorf("next: got %v, expected a break with the error", actual)
		}
	})
}

func progress(progressed bool, err error) struct {
	progressed bool
	err        error
} {
	return struct {
		progressed bool
		err        error
	}{progressed: progressed, err: err}
}

func TestTaskApplied(t *testing.T) {
	t.Run("it feeds each cycle's outcome into the policy", func(t *testing.T) {
		task := recurring.Task[int](func(_ context.Context, n int) (int, bool, error) {
			return n + 1, n < 2, nil
		})

		applied := task.Applied(recurring.Backlog())

		value, next := applied(context.Background(), 0)
		if value != 1 || next != loop.Continue(0) {
			t.Errorf("cycle with backlog: got (%d, %v)", value, next)
		}

		value, next = applied(context.Background(), 2)
		if value != 3 || next != loop.Break(nil) {
			t.Errorf("cycle without backlog: got (%d, %v)", value, next)
		}
	})
}
