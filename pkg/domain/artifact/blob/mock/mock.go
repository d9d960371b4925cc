// this package provides "mock" implementation of the blob store for testing.
package mock

import (
	"context"
	"errors"
	"io"

	"github.com/picket-dev/picket/pkg/domain/artifact/blob"
)

type MockStore struct {
	Impl struct {
		Put    func(ctx context.Context, path string, payload io.Reader) (int64, error)
		Get    func(ctx context.Context, path string) (io.ReadCloser, error)
		Delete func(ctx context.Context, path string) error
	}

	// paths passed to Delete, in call order.
	DeletedPaths []string
}

var _ blob.Store = &MockStore{}

func New() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Put(ctx context.Context, path string, payload io.Reader) (int64, error) {
	if m.Impl.Put == nil {
		return 0, errors.New("[MOCK] Put: not implemented")
	}
	return m.Impl.Put(ctx, path, payload)
}

func (m *MockStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.Impl.Get == nil {
		return nil, errors.New("[MOCK] Get: not implemented")
	}
	return m.Impl.Get(ctx, path)
}

func (m *MockStore) Delete(ctx context.Context, path string) error {
	m.DeletedPaths = append(m.DeletedPaths, path)
	if m.Impl.Delete == nil {
		return errors.New("[MOCK] Delete: not implemented")
	}
	return m.Impl.Delete(ctx, path)
}
