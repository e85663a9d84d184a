package inmem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// FileStorage keeps uploads in memory. Locations are the keys themselves.
type FileStorage struct {
	mu    sync.Mutex
	files map[string][]byte

	// UploadErr, when set, fails every Upload.
	UploadErr error
}

func NewFileStorage() *FileStorage {
	return &FileStorage{files: make(map[string][]byte)}
}

func (s *FileStorage) Upload(_ context.Context, r io.Reader, key string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; ok {
		return "", errors.New("file already exists")
	}
	s.files[key] = buf.Bytes()
	return key, nil
}

func (s *FileStorage) Delete(_ context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, location)
	return nil
}

// Get returns the stored content and whether location exists.
func (s *FileStorage) Get(location string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[location]
	return b, ok
}

func (s *FileStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
