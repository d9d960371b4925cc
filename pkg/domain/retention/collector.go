// Package retention reclaims artifacts whose age passed the retention
// TTL: the blob is deleted first, then the metadata record.
package retention

import (
	"context"
	"errors"
	"time"

	"github.com/picket-dev/picket/pkg/domain"
	"github.com/picket-dev/picket/pkg/domain/artifact/blob"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
)

const defaultPageSize = 100

type Collector struct {
	blob     blob.Store
	index    artdb.Interface
	pageSize int
}

type Option func(*Collector)

// WithPageSize sets how many expired records one query fetches.
func WithPageSize(n int) Option {
	return func(c *Collector) {
		if 0 < n {
			c.pageSize = n
		}
	}
}

func New(blobStore blob.Store, index artdb.Interface, options ...Option) *Collector {
	c := &Collector{blob: blobStore, index: index, pageSize: defaultPageSize}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Collect reclaims every artifact created before now minus ttl.
//
// Items are handled one at a time: delete the blob, then the record.
// A blob that is already gone counts as reclaimed and its record is
// removed, so orphaned records heal here. Any other per-item failure
// is tallied into the outcome and the pass moves on; the record stays
// for the next pass. Only a failing index query aborts the pass, and
// the partial outcome is returned alongside the error.
//
// The cursor always advances past failed items, so a pass terminates
// even when every deletion fails.
func (c *Collector) Collect(
	ctx context.Context, ttl time.Duration, now time.Time,
) (domain.CleanupOutcome, error) {
	cutoff := now.Add(-ttl)
	outcome := domain.CleanupOutcome{}

	cursor := artdb.Cursor{}
	for {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		expired, next, err := c.index.FindOlderThan(ctx, cutoff, cursor, c.pageSize)
		if err != nil {
			return outcome, err
		}
		if len(expired) == 0 {
			return outcome, nil
		}
		cursor = next

		for _, artifact := range expired {
			if err := c.reclaim(ctx, artifact); err != nil {
				outcome.Failed += 1
				outcome.Errors = append(outcome.Errors, domain.ItemError{
					Path: artifact.Path, Cause: err,
				})
				continue
			}
			outcome.Deleted += 1
		}
	}
}

func (c *Collector) reclaim(ctx context.Context, artifact domain.Artifact) error {
	if err := c.blob.Delete(ctx, artifact.Path); err != nil && !errors.Is(err, domain.ErrMissing) {
		return err
	}
	if err := c.index.Delete(ctx, artifact.Id); err != nil && !errors.Is(err, domain.ErrMissing) {
		return err
	}
	return nil
}

// CountExpired reports how many artifacts the next Collect with the
// same ttl would attempt. Read-only.
func (c *Collector) CountExpired(
	ctx context.Context, ttl time.Duration, now time.Time,
) (int, error) {
	return c.index.CountOlderThan(ctx, now.Add(-ttl))
}
