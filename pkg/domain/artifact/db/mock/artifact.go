// this package provides "mock" implementation of the metadata index for testing.
package mock

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/picket-dev/picket/pkg/domain"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
)

type MockIndex struct {
	Impl struct {
		Register       func(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error)
		Get            func(ctx context.Context, id string) (domain.Artifact, error)
		ListByOwner    func(ctx context.Context, ownerId string) ([]domain.Artifact, error)
		Delete         func(ctx context.Context, id string) error
		FindOlderThan  func(ctx context.Context, cutoff time.Time, cursor artdb.Cursor, limit int) ([]domain.Artifact, artdb.Cursor, error)
		CountOlderThan func(ctx context.Context, cutoff time.Time) (int, error)
	}

	// ids passed to Delete, in call order.
	DeletedIds []string
}

var _ artdb.Interface = &MockIndex{}

func New() *MockIndex {
	return &MockIndex{}
}

func (m *MockIndex) Register(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error) {
	if m.Impl.Register == nil {
		return domain.Artifact{}, errors.New("[MOCK] Register: not implemented")
	}
	return m.Impl.Register(ctx, artifact)
}

func (m *MockIndex) Get(ctx context.Context, id string) (domain.Artifact, error) {
	if m.Impl.Get == nil {
		return domain.Artifact{}, errors.New("[MOCK] Get: not implemented")
	}
	return m.Impl.Get(ctx, id)
}

func (m *MockIndex) ListByOwner(ctx context.Context, ownerId string) ([]domain.Artifact, error) {
	if m.Impl.ListByOwner == nil {
		return nil, errors.New("[MOCK] ListByOwner: not implemented")
	}
	return m.Impl.ListByOwner(ctx, ownerId)
}

func (m *MockIndex) Delete(ctx context.Context, id string) error {
	m.DeletedIds = append(m.DeletedIds, id)
	if m.Impl.Delete == nil {
		return errors.New("[MOCK] Delete: not implemented")
	}
	return m.Impl.Delete(ctx, id)
}

func (m *MockIndex) FindOlderThan(
	ctx context.Context, cutoff time.Time, cursor artdb.Cursor, limit int,
) ([]domain.Artifact, artdb.Cursor, error) {
	if m.Impl.FindOlderThan == nil {
		return nil, cursor, errors.New("[MOCK] FindOlderThan: not implemented")
	}
	return m.Impl.FindOlderThan(ctx, cutoff, cursor, limit)
}

func (m *MockIndex) CountOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if m.Impl.CountOlderThan == nil {
		return 0, errors.New("[MOCK] CountOlderThan: not implemented")
	}
	return m.Impl.CountOlderThan(ctx, cutoff)
}

// InMemoryIndex is a map-backed index for tests needing real
// insert/query/delete behavior. Ids are assigned sequentially.
type InMemoryIndex struct {
	Records map[string]domain.Artifact
	serial  int
}

var _ artdb.Interface = &InMemoryIndex{}

func NewInMemory() *InMemoryIndex {
	return &InMemoryIndex{Records: map[string]domain.Artifact{}}
}

func (s *InMemoryIndex) Register(_ context.Context, artifact domain.Artifact) (domain.Artifact, error) {
	s.serial += 1
	artifact.Id = "artifact-" + strconv.Itoa(s.serial)
	s.Records[artifact.Id] = artifact
	return artifact, nil
}

func (s *InMemoryIndex) Get(_ context.Context, id string) (domain.Artifact, error) {
	found, ok := s.Records[id]
	if !ok {
		return domain.Artifact{}, domain.ErrMissing
	}
	return found, nil
}

func (s *InMemoryIndex) ListByOwner(_ context.Context, ownerId string) ([]domain.Artifact, error) {
	found := []domain.Artifact{}
	for _, a := range s.Records {
		if a.OwnerId == ownerId {
			found = append(found, a)
		}
	}
	sortByAge(found)
	reverse(found)
	return found, nil
}

func (s *InMemoryIndex) Delete(_ context.Context, id string) error {
	if _, ok := s.Records[id]; !ok {
		return domain.ErrMissing
	}
	delete(s.Records, id)
	return nil
}

func (s *InMemoryIndex) FindOlderThan(
	_ context.Context, cutoff time.Time, cursor artdb.Cursor, limit int,
) ([]domain.Artifact, artdb.Cursor, error) {
	expired := []domain.Artifact{}
	for _, a := range s.Records {
		if !a.CreatedAt.Before(cutoff) {
			continue
		}
		if a.CreatedAt.Before(cursor.CreatedAt) ||
			(a.CreatedAt.Equal(cursor.CreatedAt) && a.Id <= cursor.Id) {
			continue
		}
		expired = append(expired, a)
	}
	sortByAge(expired)

	if limit < len(expired) {
		expired = expired[:limit]
	}
	next := cursor
	if 0 < len(expired) {
		last := expired[len(expired)-1]
		next = artdb.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}
	return expired, next, nil
}

func (s *InMemoryIndex) CountOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	count := 0
	for _, a := range s.Records {
		if a.CreatedAt.Before(cutoff) {
			count += 1
		}
	}
	return count, nil
}

// sortByAge orders artifacts oldest first, then by id, matching the
// keyset order of the real index.
func sortByAge(artifacts []domain.Artifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		a, b := artifacts[i], artifacts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Id < b.Id
	})
}

func reverse(artifacts []domain.Artifact) {
	for i, j := 0, len(artifacts)-1; i < j; i, j = i+1, j-1 {
		artifacts[i], artifacts[j] = artifacts[j], artifacts[i]
	}
}
