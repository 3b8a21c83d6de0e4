package storage

import (
	"context"
)

// ObjectStore stores binary objects addressed by container and key.
type ObjectStore interface {
	// Put uploads data and returns the object's public URL.
	Put(ctx context.Context, container, key string, data []byte, contentType string) (string, error)

	// DeleteIfExists removes an object. A missing object is not an error.
	DeleteIfExists(ctx context.Context, container, key string) error

	// KeyFromURL resolves a URL previously returned by Put back to its key.
	KeyFromURL(container, url string) (string, bool)
}
