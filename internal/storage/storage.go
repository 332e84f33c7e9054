// Package storage keeps uploaded files such as avatars.
package storage

import (
	"context" // Request scoped operations
	"io"      // Streams
)

// Disk stores objects under slash separated keys
type Disk interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL is the public address of key
	URL(key string) string
}
