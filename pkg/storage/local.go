package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore copies uploads into a directory on the local filesystem.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists and returns a store
// rooted at its absolute path.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: abs}, nil
}

// Save writes the upload byte-for-byte to <dir>/<name> and returns the
// absolute path of the stored file.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return dst, nil
}

// Remove deletes the stored file. A file that is already gone is not an
// error; the metadata row is the source of truth for existence.
func (s *LocalStore) Remove(_ context.Context, location string) error {
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
