package storage

import (
	"context"
	"io"
	"time"
)

// Object is a single blob to be written to object storage.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
}

// Service writes task exports to remote object storage.
type Service interface {
	// Upload stores the object and returns its s3:// location.
	Upload(ctx context.Context, obj Object) (string, error)
	// PresignGet returns a URL that allows downloading key until expires elapses.
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
