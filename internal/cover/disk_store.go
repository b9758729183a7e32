package cover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes cover files into a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cover dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(filename string, data []byte) (string, error) {
	fullPath := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return fullPath, nil
}

// Remove deletes a stored file. Paths outside the store directory are
// refused; a missing file is not an error.
func (s *DiskStore) Remove(path string) error {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return fmt.Errorf("cover: path %q outside store directory", path)
	}
	err := os.Remove(cleaned)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
