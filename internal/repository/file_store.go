package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"VakitApp/internal/domain/repository"
)

// FileStore is the default Store: one file per key inside a flat directory.
// The file mtime is the entry's last-write timestamp. Concurrent writers for
// the same key race with last-write-wins semantics, which is acceptable
// because same-day writers produce equivalent documents.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// keys are generated from ASCII-normalized names and never contain
	// separators; Base guards against a crafted key escaping the directory
	return filepath.Join(s.dir, filepath.Base(key))
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Mtime(ctx context.Context, key string) (time.Time, error) {
	info, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return time.Time{}, repository.ErrKeyNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info.ModTime(), nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			keys = append(keys, e.Name())
		}
	}
	return keys, nil
}
