package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"hvac-service/pkg/config"

	"github.com/google/uuid"
)

// Object is an upload ready to be persisted.
type Object struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64
}

type StoredFile struct {
	Path string `json:"filePath"`
	URL  string `json:"url"`
}

// FileStorageInterface persists uploaded files and resolves their public URLs.
type FileStorageInterface interface {
	Save(ctx context.Context, prefix string, obj Object) (StoredFile, error)
	Delete(ctx context.Context, filePath string) error
	PublicURL(filePath string) string
}

// New picks the backend named by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (FileStorageInterface, error) {
	var (
		fs  FileStorageInterface
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		fs, err = NewLocalFileStorage(cfg.LocalDir, cfg.PublicBaseURL)
	case "gcs":
		fs, err = NewGCSFileStorage(ctx, cfg)
	case "minio", "s3":
		fs, err = NewMinioFileStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("filestorage: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// objectKey lays files out as <prefix>/<yyyy>/<mm>/<dd>/<date>-<uuid><ext>.
func objectKey(prefix, originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.NewString(), ext)
	return path.Join(prefix, now.Format("2006/01/02"), name)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
