package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images below a directory that the HTTP server exposes
// at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the media directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the media root.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + key, nil
}

// Delete removes the file behind url. Unknown URLs and missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
