package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalFileStorage struct {
	basePath      string
	publicBaseURL string
	now           func() time.Time
}

func NewLocalFileStorage(basePath, publicBaseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/uploads"
	}
	return &LocalFileStorage{basePath: basePath, publicBaseURL: publicBaseURL, now: time.Now}, nil
}

func (s *LocalFileStorage) BasePath() string { return s.basePath }

func (s *LocalFileStorage) Save(_ context.Context, prefix string, obj Object) (StoredFile, error) {
	key := objectKey(prefix, obj.OriginalName, s.now())
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return StoredFile{}, err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return StoredFile{}, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, obj.Reader); err != nil {
		_ = os.Remove(fullPath)
		return StoredFile{}, err
	}

	return StoredFile{Path: key, URL: s.PublicURL(key)}, nil
}

// Delete accepts either a storage path or a public URL. Missing files are not an error.
func (s *LocalFileStorage) Delete(_ context.Context, filePath string) error {
	rel := strings.TrimPrefix(filePath, s.publicBaseURL)
	rel = strings.TrimLeft(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid file path %q", filePath)
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalFileStorage) PublicURL(filePath string) string {
	return joinURL(s.publicBaseURL, filePath)
}
