package storage

import (
	"context"
	"time"
)

// ObjectStore keeps attachment bytes. Metadata rows live in the
// database; the store only ever sees opaque keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*ObjectInfo, error)
	Get(ctx context.Context, key string) ([]byte, *ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// ObjectInfo is metadata about a stored object.
type ObjectInfo struct {
	Key         string
	Size        uint64
	ContentType string
	ModTime     time.Time
}
