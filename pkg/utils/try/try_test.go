package try_test

import (
	"errors"
	"testing"

	"github.com/picket-dev/picket/pkg/utils/try"
)

type fakeFataler struct {
	fatalCalled  bool
	helperCalled bool
}

func (f *fakeFataler) Fatal(...any) {
	f.fatalCalled = true
}

func (f *fakeFataler) Helper() {
	f.helperCalled = true
}

func TestEither(t *testing.T) {
	t.Run("when the call succeeds", func(t *testing.T) {
		testee := try.To("ok value", nil)

		value, err := testee.Get()
		if err != nil {
			t.Errorf("Get returned error: %v", err)
		}
		if value != "ok value" {
			t.Errorf(`Get: got %q, expected "ok value"`, value)
		}

		ftl := &fakeFataler{}
		if actual := testee.OrFatal(ftl); actual != "ok value" {
			t.Errorf(`OrFatal: got %q, expected "ok value"`, actual)
		}
		if ftl.fatalCalled {
			t.Error("OrFatal called Fatal on a value")
		}

		if actual := testee.OrDefault("fallback"); actual != "ok value" {
			t.Errorf(`OrDefault: got %q, expected "ok value"`, actual)
		}
	})

	t.Run("when the call fails", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		testee := try.To("should be dropped", expectedErr)

		value, err := testee.Get()
		if !errors.Is(err, expectedErr) {
			t.Errorf("Get: got error %v, expected %v", err, expectedErr)
		}
		if value != "" {
			t.Errorf("Get: got %q, expected the zero value", value)
		}

		ftl := &fakeFataler{}
		testee.OrFatal(ftl)
		if !ftl.fatalCalled {
			t.Error("OrFatal did not call Fatal on an error")
		}
		if !ftl.helperCalled {
			t.Error("OrFatal did not call Helper before Fatal")
		}

		if actual := testee.OrDefault("fallback"); actual != "fallback" {
			t.Errorf(`OrDefault: got %q, expected "fallback"`, actual)
		}
	})
}
