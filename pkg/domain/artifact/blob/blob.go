package blob

import (
	"context"
	"io"
)

// Store is binary object storage keyed by path.
//
// Implementations map their backend's failures onto the domain
// sentinels: deleting or reading an absent object yields
// domain.ErrMissing, a permission refusal yields
// domain.ErrUnauthorized.
type Store interface {
	// Put writes the payload as a new object at path and returns the
	// number of bytes written. Overwriting an existing object is an
	// error: paths are unique per artifact.
	Put(ctx context.Context, path string, payload io.Reader) (int64, error)

	// Get opens the object at path for reading.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error
}
