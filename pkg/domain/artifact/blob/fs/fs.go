// Package fs is the filesystem-backed blob store. Objects live as
// plain files under a root directory; the object path doubles as the
// file path relative to that root.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/picket-dev/picket/pkg/domain"
	"github.com/picket-dev/picket/pkg/domain/artifact/blob"
)

type store struct {
	root string
}

func New(root string) blob.Store {
	return &store{root: root}
}

func (s *store) Put(ctx context.Context, path string, payload io.Reader) (int64, error) {
	dest, err := s.resolve(path)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), os.FileMode(0700)); err != nil {
		return 0, asDomainError(err)
	}

	// O_EXCL: a record's path names exactly one object, ever.
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, os.FileMode(0600))
	if err != nil {
		return 0, asDomainError(err)
	}
	defer f.Close()

	written, err := io.Copy(f, payload)
	if err != nil {
		os.Remove(dest) // do not leave partial objects behind
		return 0, err
	}
	return written, nil
}

func (s *store) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	dest, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dest)
	if err != nil {
		return nil, asDomainError(err)
	}
	return f, nil
}

func (s *store) Delete(ctx context.Context, path string) error {
	dest, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil {
		return asDomainError(err)
	}
	return nil
}

// resolve maps an object path to a file path under the root,
// refusing paths that would escape it.
func (s *store) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty blob path", domain.ErrMissing)
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: blob path escapes the store root: %s", domain.ErrUnauthorized, path)
	}
	return filepath.Join(s.root, cleaned), nil
}

func asDomainError(err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", domain.ErrMissing, err)
	case os.IsExist(err):
		return fmt.Errorf("%w: %s", domain.ErrConflict, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	default:
		return err
	}
}
