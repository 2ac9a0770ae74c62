// Package imagestore provides the image upload collaborator: it takes a file
// blob plus a folder path and returns a public URL. The catalog treats the
// returned URL as opaque.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Store uploads an image and returns its public URL.
type Store interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error)
}

// LocalStore is the local-disk fallback used when no object storage is
// configured. Files land under BaseDir and are addressed below BaseURL.
type LocalStore struct {
	BaseDir string
	BaseURL string
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{BaseDir: baseDir, BaseURL: baseURL}
}

// Upload writes the blob under BaseDir/folder/filename.
func (s *LocalStore) Upload(_ context.Context, folder, filename string, r io.Reader, _ string) (string, error) {
	dir := filepath.Join(s.BaseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}

	dst := filepath.Join(dir, filename)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create media file %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write media file %s: %w", dst, err)
	}

	return s.BaseURL + "/" + path.Join(folder, filename), nil
}
