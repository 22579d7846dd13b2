// Package storage uploads finished reports to S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is implemented by the MinIO client; safe for concurrent use.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// PresignGet returns a time-limited download link for key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
