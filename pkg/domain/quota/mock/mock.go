// this package provides "mock" implementation of the quota store for testing.
package mock

import (
	"context"
	"errors"
	"time"

	"github.com/picket-dev/picket/pkg/domain/quota"
)

type MockStore struct {
	Impl struct {
		Load func(ctx context.Context, principal string) ([]time.Time, error)
		Save func(ctx context.Context, principal string, stamps []time.Time) error
	}
}

var _ quota.Store = &MockStore{}

func New() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Load(ctx context.Context, principal string) ([]time.Time, error) {
	if m.Impl.Load == nil {
		return nil, errors.New("[MOCK] Load: not implemented")
	}
	return m.Impl.Load(ctx, principal)
}

func (m *MockStore) Save(ctx context.Context, principal string, stamps []time.Time) error {
	if m.Impl.Save == nil {
		return errors.New("[MOCK] Save: not implemented")
	}
	return m.Impl.Save(ctx, principal, stamps)
}

// InMemory is a Store backed by a map, for tests that need load/save
// round-trips rather than scripted responses.
type InMemory struct {
	Ledger map[string][]time.Time
}

var _ quota.Store = &InMemory{}

func NewInMemory() *InMemory {
	return &InMemory{Ledger: map[string][]time.Time{}}
}

func (s *InMemory) Load(_ context.Context, principal string) ([]time.Time, error) {
	stamps := s.Ledger[principal]
	copied := make([]time.Time, len(stamps))
	copy(copied, stamps)
	return copied, nil
}

func (s *InMemory) Save(_ context.Context, principal string, stamps []time.Time) error {
	copied := make([]time.Time, len(stamps))
	copy(copied, stamps)
	s.Ledger[principal] = copied
	return nil
}
