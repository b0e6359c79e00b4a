package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StorageInterface defines the operations the delivery pipeline needs
// from the pattern-file blob store.
type StorageInterface interface {
	// Exists probes whether the file is present on disk
	Exists(path string) bool

	// Size returns the file size in bytes
	Size(path string) (int64, error)

	// Open returns a reader over the file contents
	Open(path string) (io.ReadCloser, error)
}

// LocalStorage is the disk-backed blob store holding rachma files,
// addressed by paths relative to the storage root.
type LocalStorage struct {
	root string
}

var storageInstance StorageInterface

// InitStorage initializes the storage service rooted at dir
func InitStorage(dir string) StorageInterface {
	storageInstance = &LocalStorage{root: dir}
	return storageInstance
}

// GetStorage returns the initialized storage instance
func GetStorage() StorageInterface {
	return storageInstance
}

// SetStorage sets the storage instance (primarily for testing)
func SetStorage(s StorageInterface) {
	storageInstance = s
}

func (s *LocalStorage) fullPath(path string) string {
	return filepath.Join(s.root, filepath.Clean("/"+path))
}

// Exists probes whether the file is present on disk
func (s *LocalStorage) Exists(path string) bool {
	info, err := os.Stat(s.fullPath(path))
	return err == nil && !info.IsDir()
}

// Size returns the file size in bytes
func (s *LocalStorage) Size(path string) (int64, error) {
	info, err := os.Stat(s.fullPath(path))
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	return info.Size(), nil
}

// Open returns a reader over the file contents
func (s *LocalStorage) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return f, nil
}
