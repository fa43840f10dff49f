package store

import (
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key in its own JSON file under a data directory, so
// corruption of one file never affects the other keys. Writes go through a
// temp file and rename, keeping each key's file atomic on crash.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

// Get reads a key's file. Read failures report as a miss.
func (s *FileStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes a key's file atomically via temp file and rename.
func (s *FileStore) Set(key string, value []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a key's file. An absent file is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) path(key string) string {
	// Flatten path separators so a key cannot escape the data directory.
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

// Verify FileStore implements BlobStore
var _ BlobStore = (*FileStore)(nil)
