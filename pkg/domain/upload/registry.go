// Package upload composes the upload path: blob first, then the
// metadata record. There is no transaction across the two stores; the
// failure policy is spelled out on Register.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/picket-dev/picket/pkg/domain"
	"github.com/picket-dev/picket/pkg/domain/artifact/blob"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

type Registry struct {
	blob  blob.Store
	index artdb.Interface
	clock clock.Clock
}

func New(blobStore blob.Store, index artdb.Interface, clk clock.Clock) *Registry {
	return &Registry{blob: blobStore, index: index, clock: clk}
}

// Register stores the payload and then indexes it.
//
// If the metadata insert fails after the blob was written, the blob is
// deliberately left in place (rolling back would add a second failure
// mode). The returned error wraps domain.ErrOrphaned and the artifact
// carries the path the blob was written to; the orphan is reclaimed by
// the retention collector once it ages past the TTL.
func (r *Registry) Register(
	ctx context.Context, ownerId string, displayName string, payload io.Reader,
) (domain.Artifact, error) {
	if ownerId == "" {
		return domain.Artifact{}, fmt.Errorf(
			"%w: owner is required", domain.ErrInvalidPrincipal,
		)
	}

	now := r.clock.Now()
	blobPath := fmt.Sprintf(
		"uploads/%s/%d_%s", ownerId, now.UnixMilli(), sanitizeName(displayName),
	)

	written, err := r.blob.Put(ctx, blobPath, payload)
	if err != nil {
		return domain.Artifact{}, err
	}

	artifact := domain.Artifact{
		OwnerId:     ownerId,
		Path:        blobPath,
		DisplayName: displayName,
		SizeBytes:   written,
		CreatedAt:   now,
	}

	registered, err := r.index.Register(ctx, artifact)
	if err != nil {
		return artifact, fmt.Errorf("%w: %s: %s", domain.ErrOrphaned, blobPath, err)
	}
	return registered, nil
}

// Remove is the explicit single-item delete: blob, then record.
//
// A blob already gone (domain.ErrMissing) is tolerated; the record is
// removed anyway, since the end state is the one requested. Any other
// blob failure keeps the record in place as a retry candidate.
//
// When expectedOwner is not empty, the artifact must belong to it;
// otherwise domain.ErrUnauthorized.
func (r *Registry) Remove(ctx context.Context, id string, expectedOwner string) error {
	artifact, err := r.index.Get(ctx, id)
	if err != nil {
		return err
	}
	if expectedOwner != "" && artifact.OwnerId != expectedOwner {
		return fmt.Errorf(
			"%w: artifact %s is not owned by %s", domain.ErrUnauthorized, id, expectedOwner,
		)
	}

	if err := r.blob.Delete(ctx, artifact.Path); err != nil && !errors.Is(err, domain.ErrMissing) {
		return err
	}

	if err := r.index.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrMissing) {
		return err
	}
	return nil
}

// sanitizeName flattens a client-supplied filename into a single path
// element.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." || name == "" {
		return "upload"
	}
	return name
}
