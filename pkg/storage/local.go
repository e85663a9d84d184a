package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

type localStorage struct {
	root string
}

// NewLocalStorage stores files below root. Returned locations are
// root-relative paths ("uploads/submissions/1_2_....pdf") that the router
// serves statically.
func NewLocalStorage(root string) (FileStorage, error) {
	if root == "" {
		return nil, errors.New("upload directory must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{root: filepath.Clean(root)}, nil
}

func (s *localStorage) Upload(ctx context.Context, r io.Reader, key string) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return filepath.ToSlash(dst), nil
}

func (s *localStorage) Delete(ctx context.Context, location string) error {
	rel, err := filepath.Rel(s.root, filepath.Clean(filepath.FromSlash(location)))
	if err != nil {
		return ErrInvalidKey
	}
	dst, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *localStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, clean), nil
}
