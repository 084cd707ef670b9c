// Package storage persists uploaded trip attachments either on the local
// filesystem or in an S3-compatible object store.
package storage

import (
	"context"
	"io"
)

// Store saves and removes uploaded file content. Save returns a locator
// that is recorded in the file metadata row: an absolute filesystem path
// for local storage, or an s3://<bucket>/<key> URI for object storage.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, location string) error
}
