package db

import (
	"context"
	"time"

	"github.com/picket-dev/picket/pkg/domain"
)

// Cursor marks a position in the createdAt-ordered record sequence.
// The zero Cursor starts from the oldest record. Cursors are only
// meaningful within the pass that produced them; they are not
// restartable across passes.
type Cursor struct {
	CreatedAt time.Time
	Id        string
}

// Interface is the queryable metadata index: one record per stored
// blob, keyed by a store-assigned id.
type Interface interface {
	// Register inserts a new record and returns it with its assigned
	// id. The input's Id field is ignored.
	Register(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error)

	// Get returns the record with the given id, or domain.ErrMissing.
	Get(ctx context.Context, id string) (domain.Artifact, error)

	// ListByOwner returns all records of the principal, newest first.
	ListByOwner(ctx context.Context, ownerId string) ([]domain.Artifact, error)

	// Delete removes the record with the given id.
	// Returns domain.ErrMissing when no such record exists.
	Delete(ctx context.Context, id string) error

	// FindOlderThan returns up to limit records with createdAt before
	// cutoff, after the cursor position, oldest first, along with the
	// cursor for the next page. An empty page means the sequence is
	// exhausted.
	FindOlderThan(ctx context.Context, cutoff time.Time, cursor Cursor, limit int) ([]domain.Artifact, Cursor, error)

	// CountOlderThan returns how many records FindOlderThan would
	// yield in total for the same cutoff.
	CountOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
