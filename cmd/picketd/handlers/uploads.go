package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/picket-dev/picket/pkg/api/types/errors"
	apiuploads "github.com/picket-dev/picket/pkg/api/types/uploads"
	"github.com/picket-dev/picket/pkg/auth"
	"github.com/picket-dev/picket/pkg/domain"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
	"github.com/picket-dev/picket/pkg/domain/upload"
)

// PostUploadHandler stores the multipart "file" field for the
// authenticated principal.
func PostUploadHandler(registry *upload.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		principal := auth.Principal(c)
		if principal == "" {
			return apierr.Unauthorized("pass a bearer token", nil)
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apierr.BadRequest(`send the payload as multipart field "file"`, err)
		}
		src, err := fileHeader.Open()
		if err != nil {
			return apierr.InternalServerError(err)
		}
		defer src.Close()

		artifact, err := registry.Register(ctx, principal, fileHeader.Filename, src)
		if errors.Is(err, domain.ErrConflict) {
			return apierr.Conflict(
				"an upload already exists at the same path", apierr.WithError(err),
			)
		}
		if errors.Is(err, domain.ErrOrphaned) {
			// the blob is stored; the record will come from no
			// retry, so tell the caller to upload again.
			c.Logger().Warnf("orphaned blob: %s", err)
			return apierr.ServiceUnavailable("upload it again later", err)
		}
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apiuploads.ComposeDetail(artifact))
	}
}

// GetUploadsHandler lists the principal's artifacts, newest first.
func GetUploadsHandler(index artdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		principal := auth.Principal(c)
		if principal == "" {
			return apierr.Unauthorized("pass a bearer token", nil)
		}

		artifacts, err := index.ListByOwner(ctx, principal)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apiuploads.Detail, 0, len(artifacts))
		for _, a := range artifacts {
			found = append(found, apiuploads.ComposeDetail(a))
		}
		return c.JSON(http.StatusOK, found)
	}
}

// DeleteUploadHandler removes one artifact owned by the principal:
// the blob first, then the record.
func DeleteUploadHandler(registry *upload.Registry, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		principal := auth.Principal(c)
		if principal == "" {
			return apierr.Unauthorized("pass a bearer token", nil)
		}
		uploadId := c.Param(paramKey)

		err := registry.Remove(ctx, uploadId, principal)
		switch {
		case err == nil:
			return c.NoContent(http.StatusNoContent)
		case errors.Is(err, domain.ErrMissing):
			return apierr.NotFound()
		case errors.Is(err, domain.ErrUnauthorized):
			return apierr.Forbidden("the upload is not yours", err)
		default:
			return apierr.InternalServerError(err)
		}
	}
}
