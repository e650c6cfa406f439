package kv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/festie/internal/fsops"
)

// FileStore implements Store using one JSON file per key on disk.
type FileStore struct {
	fs  fsops.FS
	dir string
}

// NewFileStore creates a new FileStore writing under dir.
func NewFileStore(fs fsops.FS, dir string) *FileStore {
	return &FileStore{
		fs:  fs,
		dir: dir,
	}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := s.fs.ValidateKey(key); err != nil {
		return nil, false, err
	}

	data, err := s.fs.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return data, true, nil
}

// Set writes the file for key atomically.
func (s *FileStore) Set(key string, value []byte) error {
	if err := s.fs.ValidateKey(key); err != nil {
		return err
	}

	if err := s.fs.AtomicWrite(s.path(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Delete removes the file for key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if err := s.fs.ValidateKey(key); err != nil {
		return err
	}

	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; files are closed after every write.
func (s *FileStore) Close() error {
	return nil
}
