package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/picket-dev/picket/pkg/api/types/errors"
	apiuploads "github.com/picket-dev/picket/pkg/api/types/uploads"
	"github.com/picket-dev/picket/pkg/auth"
	"github.com/picket-dev/picket/pkg/domain"
)

// GetQuotaPolicyHandler serves the admission limits this server is
// configured with, so clients can seed their device-local quota
// instead of assuming the defaults.
func GetQuotaPolicyHandler(limits domain.QuotaLimits) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.Principal(c) == "" {
			return apierr.Unauthorized("pass a bearer token", nil)
		}
		return c.JSON(http.StatusOK, apiuploads.ComposeQuotaPolicy(limits))
	}
}
