package auth_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/picket-dev/picket/pkg/auth"
	"github.com/picket-dev/picket/pkg/domain"
	httptestutil "github.com/picket-dev/picket/internal/testutils/http"
	"github.com/picket-dev/picket/pkg/utils/clock"
	"github.com/picket-dev/picket/pkg/utils/try"
)

func TestTokens(t *testing.T) {
	now := try.To(time.Parse(time.RFC3339, "2024-10-01T12:00:00Z")).OrFatal(t)

	t.Run("it verifies a token it issued", func(t *testing.T) {
		testee := auth.New("test-key", clock.Fixed(now))
		token := try.To(testee.Issue("u1", time.Hour)).OrFatal(t)

		principal := try.To(testee.Verify(token)).OrFatal(t)
		if principal != "u1" {
			t.Errorf("principal: got %s, expected u1", principal)
		}
	})

	t.Run("it refuses an expired token", func(t *testing.T) {
		issued := try.To(
			auth.New("test-key", clock.Fixed(now)).Issue("u1", time.Hour),
		).OrFatal(t)

		later := auth.New("test-key", clock.Fixed(now.Add(2*time.Hour)))
		if _, err := later.Verify(issued); !errors.Is(err, domain.ErrInvalidPrincipal) {
			t.Errorf("expected ErrInvalidPrincipal, got %v", err)
		}
	})

	t.Run("it refuses a token signed with another key", func(t *testing.T) {
		issued := try.To(
			auth.New("other-key", clock.Fixed(now)).Issue("u1", time.Hour),
		).OrFatal(t)

		testee := auth.New("test-key", clock.Fixed(now))
		if _, err := testee.Verify(issued); !errors.Is(err, domain.ErrInvalidPrincipal) {
			t.Errorf("expected ErrInvalidPrincipal, got %v", err)
		}
	})

	t.Run("it refuses to issue for an empty principal", func(t *testing.T) {
		testee := auth.New("test-key", clock.Fixed(now))
		if _, err := testee.Issue("", time.Hour); !errors.Is(err, domain.ErrInvalidPrincipal) {
			t.Errorf("expected ErrInvalidPrincipal, got %v", err)
		}
	})
}

func TestMiddleware(t *testing.T) {
	now := try.To(time.Parse(time.RFC3339, "2024-10-01T12:00:00Z")).OrFatal(t)
	testee := auth.New("test-key", clock.Fixed(now))

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, auth.Principal(c))
	}

	t.Run("it passes a valid bearer token through", func(t *testing.T) {
		token := try.To(testee.Issue("u1", time.Hour)).OrFatal(t)

		e := echo.New()
		ctx, resprec := httptestutil.Get(e, "/api/uploads/")
		ctx.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		err := testee.Middleware()(handler)(ctx)
		if err != nil {
			t.Fatalf("middleware rejected a valid token: %v", err)
		}
		if resprec.Body.String() != "u1" {
			t.Errorf("principal: got %s, expected u1", resprec.Body.String())
		}
	})

	t.Run("it rejects a request without a token", func(t *testing.T) {
		e := echo.New()
		ctx, _ := httptestutil.Get(e, "/api/uploads/")

		err := testee.Middleware()(handler)(ctx)
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %v", err)
		}
	})

	t.Run("it rejects a garbled token", func(t *testing.T) {
		e := echo.New()
		ctx, _ := httptestutil.Get(e, "/api/uploads/")
		ctx.Request().Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")

		err := testee.Middleware()(handler)(ctx)
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %v", err)
		}
	})
}
