package filestorage

import (
	"context"
	"fmt"
	"time"

	"hvac-service/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioFileStorage stores files in any S3-compatible bucket.
type MinioFileStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

func NewMinioFileStorage(ctx context.Context, cfg config.StorageConfig) (*MinioFileStorage, error) {
	if cfg.MinioEndpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("filestorage: MINIO_ENDPOINT and STORAGE_BUCKET are required for minio")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("filestorage: create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("filestorage: check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("filestorage: create bucket %q: %w", cfg.Bucket, err)
		}
	}

	base := cfg.PublicBaseURL
	if base == "" || base == "/uploads" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.Bucket)
	}

	return &MinioFileStorage{client: client, bucket: cfg.Bucket, publicBaseURL: base, now: time.Now}, nil
}

func (s *MinioFileStorage) Save(ctx context.Context, prefix string, obj Object) (StoredFile, error) {
	key := objectKey(prefix, obj.OriginalName, s.now())

	size := obj.Size
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, obj.Reader, size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("put minio object: %w", err)
	}

	return StoredFile{Path: key, URL: s.PublicURL(key)}, nil
}

func (s *MinioFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, filePath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove minio object %q: %w", filePath, err)
	}
	return nil
}

func (s *MinioFileStorage) PublicURL(filePath string) string {
	return joinURL(s.publicBaseURL, filePath)
}
