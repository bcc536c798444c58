package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"hvac-service/pkg/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSFileStorage struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

func NewGCSFileStorage(ctx context.Context, cfg config.StorageConfig) (*GCSFileStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("filestorage: STORAGE_BUCKET is required for gcs")
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("filestorage: create gcs client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" || base == "/uploads" {
		base = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return &GCSFileStorage{client: client, bucket: cfg.Bucket, publicBaseURL: base, now: time.Now}, nil
}

func (s *GCSFileStorage) Save(ctx context.Context, prefix string, obj Object) (StoredFile, error) {
	key := objectKey(prefix, obj.OriginalName, s.now())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = obj.ContentType
	if _, err := io.Copy(w, obj.Reader); err != nil {
		_ = w.Close()
		return StoredFile{}, fmt.Errorf("write gcs object: %w", err)
	}
	if err := w.Close(); err != nil {
		return StoredFile{}, fmt.Errorf("close gcs writer: %w", err)
	}

	return StoredFile{Path: key, URL: s.PublicURL(key)}, nil
}

func (s *GCSFileStorage) Delete(ctx context.Context, filePath string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(filePath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object %q: %w", filePath, err)
	}
	return nil
}

func (s *GCSFileStorage) PublicURL(filePath string) string {
	return joinURL(s.publicBaseURL, filePath)
}

func (s *GCSFileStorage) Close() error {
	return s.client.Close()
}
