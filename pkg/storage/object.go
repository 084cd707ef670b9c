package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/suteetoe/tripplanner/pkg/config"
)

// ObjectStore streams uploads into an S3-compatible bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the configured S3-compatible endpoint.
func NewObjectStore(cfg *config.StorageConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// Save streams the upload to the bucket under key = name and returns the
// s3://<bucket>/<key> URI recorded in the file metadata.
func (s *ObjectStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}

// Remove derives the object key from the recorded URI and deletes it.
func (s *ObjectStore) Remove(ctx context.Context, location string) error {
	key := objectKey(s.bucket, location)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// objectKey strips the s3://<bucket>/ prefix from a recorded locator.
func objectKey(bucket, location string) string {
	return strings.TrimPrefix(location, fmt.Sprintf("s3://%s/", bucket))
}
