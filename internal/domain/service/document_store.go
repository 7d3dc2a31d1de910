package service

import (
	"context"
	"io"
)

// DocumentStore abstracts the external blob store holding verification
// documentation and listing images. Only opaque keys cross the domain boundary.
type DocumentStore interface {
	// Save writes the document under the given key and returns the stored key.
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// SignedURL returns a time-limited read URL for the stored document.
	SignedURL(ctx context.Context, key string) (string, error)

	// Delete removes a stored document.
	Delete(ctx context.Context, key string) error
}
