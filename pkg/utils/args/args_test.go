package args_test

import (
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/picket-dev/picket/pkg/utils/args"
)

type duration time.Duration

func (d duration) String() string {
	return time.Duration(d).String()
}

func parseDuration(s string) (duration, error) {
	d, err := time.ParseDuration(s)
	return duration(d), err
}

func TestAdapter(t *testing.T) {
	t.Run("it stays unset until the flag appears", func(t *testing.T) {
		testee := args.Parser(parseDuration)
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Var(testee, "interval", "")

		if err := fs.Parse([]string{}); err != nil {
			t.Fatal(err)
		}

		if testee.IsSet() {
			t.Error("IsSet: got true before any Set")
		}
		if testee.String() != "" {
			t.Errorf("String: got %q, expected empty for an unset flag", testee.String())
		}
	})

	t.Run("it parses the flag value", func(t *testing.T) {
		testee := args.Parser(parseDuration)
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Var(testee, "interval", "")

		if err := fs.Parse([]string{"-interval", "90s"}); err != nil {
			t.Fatal(err)
		}

		if !testee.IsSet() {
			t.Error("IsSet: got false after parsing")
		}
		if actual := testee.Value(); actual != duration(90*time.Second) {
			t.Errorf("Value: got %v, expected 90s", actual)
		}
		if testee.String() != "1m30s" {
			t.Errorf(`String: got %q, expected "1m30s"`, testee.String())
		}
	})

	t.Run("it propagates parse errors to the flag package", func(t *testing.T) {
		expectedErr := errors.New("fake parse error")
		testee := args.Parser(func(string) (duration, error) {
			return 0, expectedErr
		})
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(discard{})
		fs.Var(testee, "interval", "")

		if err := fs.Parse([]string{"-interval", "whatever"}); err == nil {
			t.Error("Parse did not fail")
		}
		if testee.IsSet() {
			t.Error("IsSet: got true after a failed Set")
		}
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}
