package services

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// MockStorage is an in-memory implementation of StorageInterface for testing
type MockStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockStorage creates a new mock storage service
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance for testing
func (m *MockStorage) SetAsMockForTesting() {
	SetStorage(m)
}

// AddFile stores content under path in the mock store
func (m *MockStorage) AddFile(path string, content []byte) {
	m.mu.Lock()
	m.files[path] = content
	m.mu.Unlock()
}

// AddFileOfSize stores a zero-filled file of the given size, for tests
// that only care about size gates
func (m *MockStorage) AddFileOfSize(path string, size int64) {
	m.AddFile(path, make([]byte, size))
}

// RemoveFile deletes a file from the mock store
func (m *MockStorage) RemoveFile(path string) {
	m.mu.Lock()
	delete(m.files, path)
	m.mu.Unlock()
}

// Exists probes whether the file is present in the mock store
func (m *MockStorage) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok
}

// Size returns the stored file size in bytes
func (m *MockStorage) Size(path string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[path]
	if !ok {
		return 0, fmt.Errorf("file not found in mock storage: %s", path)
	}
	return int64(len(content)), nil
}

// Open returns a reader over the stored file contents
func (m *MockStorage) Open(path string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found in mock storage: %s", path)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}
