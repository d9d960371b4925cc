package domain

import (
	"fmt"
	"time"
)

// Artifact is one stored upload: a blob at Path in the blob store,
// plus this record in the metadata index.
//
// While the record exists, exactly one object is expected at Path.
// Artifacts are never mutated after creation; they are destroyed by
// the retention collector or by an explicit single-item delete.
type Artifact struct {
	Id          string
	OwnerId     string
	Path        string
	DisplayName string
	SizeBytes   int64
	CreatedAt   time.Time
}

func (a Artifact) Equal(o Artifact) bool {
	return a.Id == o.Id &&
		a.OwnerId == o.OwnerId &&
		a.Path == o.Path &&
		a.DisplayName == o.DisplayName &&
		a.SizeBytes == o.SizeBytes &&
		a.CreatedAt.Equal(o.CreatedAt)
}

func (a Artifact) String() string {
	return fmt.Sprintf(
		"artifact[%s] owner=%s path=%s created=%s",
		a.Id, a.OwnerId, a.Path, a.CreatedAt.Format(time.RFC3339),
	)
}

// ItemError is a failure of reclaiming a single artifact during a
// collection pass. It never escapes a pass as an error; it is
// aggregated into CleanupOutcome.
type ItemError struct {
	Path  string
	Cause error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Cause)
}

func (e ItemError) Unwrap() error {
	return e.Cause
}

// CleanupOutcome is the tally of one collection pass.
// Not persisted; returned to the caller of the pass.
type CleanupOutcome struct {
	Deleted int
	Failed  int
	Errors  []ItemError
}

func (o CleanupOutcome) Equal(other CleanupOutcome) bool {
	if o.Deleted != other.Deleted || o.Failed != other.Failed {
		return false
	}
	if len(o.Errors) != len(other.Errors) {
		return false
	}
	for i := range o.Errors {
		if o.Errors[i].Path != other.Errors[i].Path {
			return false
		}
	}
	return true
}
