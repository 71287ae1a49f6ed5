package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"
)

// MemoryStorage keeps documents in process memory. It backs tests and the
// STORAGE_TYPE=memory setting.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(ctx context.Context, content io.Reader, p string, contentType string) (string, error) {
	key := path.Clean("/" + p)[1:]
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}

	s.mu.Lock()
	s.files[key] = data
	s.mu.Unlock()
	return key, nil
}

func (s *MemoryStorage) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.files[path.Clean("/" + p)[1:]]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStorage) Delete(ctx context.Context, p string) error {
	s.mu.Lock()
	delete(s.files, path.Clean("/" + p)[1:])
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Exists(ctx context.Context, p string) (bool, error) {
	s.mu.RLock()
	_, ok := s.files[path.Clean("/" + p)[1:]]
	s.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored documents.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
