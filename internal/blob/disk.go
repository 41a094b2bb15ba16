// Package blob persists raw file bytes on local disk. The metadata store is
// the system of record; this is the secondary store keyed by generated path.
package blob

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultRoot is used when no storage root is configured.
const DefaultRoot = "/tmp/files_manager"

// DiskStore writes each object to a fresh uniquely named file under Root.
// Names are never reused, so writes are effectively write-once.
type DiskStore struct {
	root string
}

// NewDiskStore constructs a store rooted at root, falling back to DefaultRoot
// when root is empty. The directory is created on first write.
func NewDiskStore(root string) *DiskStore {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		trimmed = DefaultRoot
	}
	return &DiskStore{root: filepath.Clean(trimmed)}
}

// Root returns the configured storage directory.
func (s *DiskStore) Root() string {
	return s.root
}

// Save writes data to a freshly named object and returns its absolute path.
func (s *DiskStore) Save(data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create storage root: %w", err)
	}
	path := filepath.Join(s.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return path, nil
}

// Read returns the full contents of the object at path.
func (s *DiskStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// Exists reports whether an object is present at path.
func (s *DiskStore) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Open exposes the object for streaming reads.
func (s *DiskStore) Open(path string) (*os.File, fs.FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("stat object: %w", err)
	}
	return file, info, nil
}
