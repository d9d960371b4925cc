package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierr "github.com/picket-dev/picket/pkg/api/types/errors"
	apiuploads "github.com/picket-dev/picket/pkg/api/types/uploads"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

// PostCleanupHandler runs one collection pass on demand.
//
// The "ttl" query parameter (a Go duration, e.g. "720h") overrides
// the configured TTL for this pass only.
func PostCleanupHandler(
	collector *retention.Collector, defaultTTL time.Duration, clk clock.Clock,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		ttl, err := ttlParam(c, defaultTTL)
		if err != nil {
			return apierr.BadRequest(`"ttl" should be a duration like "720h"`, err)
		}

		outcome, err := collector.Collect(ctx, ttl, clk.Now())
		if err != nil {
			// per-item failures are in the outcome; reaching here
			// means the index query itself failed.
			return apierr.ServiceUnavailable("retry the cleanup later", err)
		}

		return c.JSON(http.StatusOK, apiuploads.ComposeCleanupSummary(outcome))
	}
}

// GetCleanupHandler previews the next pass: how many artifacts are
// past the TTL right now. Deletes nothing.
func GetCleanupHandler(
	collector *retention.Collector, defaultTTL time.Duration, clk clock.Clock,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		ttl, err := ttlParam(c, defaultTTL)
		if err != nil {
			return apierr.BadRequest(`"ttl" should be a duration like "720h"`, err)
		}

		now := clk.Now()
		count, err := collector.CountExpired(ctx, ttl, now)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiuploads.ExpiredCount{
			Count:  count,
			Cutoff: now.Add(-ttl),
		})
	}
}

func ttlParam(c echo.Context, defaultTTL time.Duration) (time.Duration, error) {
	raw := c.QueryParam("ttl")
	if raw == "" {
		return defaultTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return ttl, nil
}
