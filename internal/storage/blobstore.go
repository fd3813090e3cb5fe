// Package storage persists binary resume artifacts: uploaded thumbnail
// and profile images plus worker-generated PDFs. Two backends implement
// the same interface so handlers never know which one is configured.
package storage

import (
	"context"
	"io"
)

// BlobStore stores binary payloads under string keys.
type BlobStore interface {
	// Put stores the payload and its content type under key,
	// overwriting any previous object.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Get opens the payload stored under key along with its content
	// type. Missing keys yield an error satisfying IsNoSuchKey.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes the object under key. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, key string) error
}
