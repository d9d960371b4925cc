package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/picket-dev/picket/pkg/errors"
)

type rootError struct{}

func (rootError) Error() string {
	return "root cause"
}

func wrapHere(err error) error {
	return xe.Wrap(err)
}

func TestWrap(t *testing.T) {
	t.Run("the message names the wrapping site", func(t *testing.T) {
		testee := wrapHere(rootError{})
		_, thisFile, _, _ := runtime.Caller(0)

		message := testee.Error()
		if !strings.Contains(message, "wrapHere") {
			t.Errorf("message lacks the wrapping function: %s", message)
		}
		if !strings.Contains(message, thisFile) {
			t.Errorf("message lacks the wrapping file (%s): %s", thisFile, message)
		}
		if !strings.Contains(message, "root cause") {
			t.Errorf("message lacks the cause: %s", message)
		}
	})

	t.Run("errors.Is finds the cause through wraps", func(t *testing.T) {
		cause := rootError{}
		testee := xe.Wrap(fmt.Errorf("context: %w", cause))

		if !errors.Is(testee, cause) {
			t.Error("the cause is not reachable via Unwrap")
		}
	})

	t.Run("WrapWithNote carries the note in the message", func(t *testing.T) {
		testee := xe.WrapWithNote("while storing blob", rootError{})

		if message := testee.Error(); !strings.Contains(message, "while storing blob") {
			t.Errorf("message lacks the note: %s", message)
		}
	})

	t.Run("New records its caller like Wrap does", func(t *testing.T) {
		testee := xe.New("fresh error")
		_, thisFile, _, _ := runtime.Caller(0)

		message := testee.Error()
		if !strings.Contains(message, thisFile) {
			t.Errorf("message lacks the creating file (%s): %s", thisFile, message)
		}
		if !strings.Contains(message, "fresh error") {
			t.Errorf("message lacks the text: %s", message)
		}
	})
}
