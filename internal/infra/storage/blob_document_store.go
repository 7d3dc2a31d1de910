// Package storage implements the document store on top of gocloud.dev blob buckets.
package storage

import (
	"context"
	"io"
	"log/slog"
	"time"

	"coldstore/config"
	"coldstore/internal/domain/service"
	"coldstore/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // local filesystem driver
	_ "gocloud.dev/blob/gcsblob"  // Google Cloud Storage driver
	"gocloud.dev/gcerrors"
)

const signedURLExpiry = 15 * time.Minute

// blobDocumentStore stores verification documents and listing images in a
// blob bucket addressed by an opaque key.
type blobDocumentStore struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// DocumentStoreParams holds dependencies for the document store, injected by Fx.
type DocumentStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobDocumentStore opens the configured bucket and registers its shutdown hook.
func NewBlobDocumentStore(params DocumentStoreParams) (service.DocumentStore, error) {
	cfg := params.Config.Documents
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("documents bucket URL is required")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing document store bucket")

			return bucket.Close()
		},
	})

	return &blobDocumentStore{
		bucket: bucket,
		logger: params.Logger,
	}, nil
}

// Save writes the document body under the given key and returns the stored key.
func (s *blobDocumentStore) Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "open writer for %s", key)
	}

	written, err := io.Copy(writer, body)
	if err != nil {
		// Abort the write so no partial object is committed.
		_ = writer.Close()

		return "", errors.Wrapf(err, "write document %s", key)
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrapf(err, "commit document %s", key)
	}

	s.logger.Debug("Stored document",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(written)))

	return key, nil
}

// SignedURL returns a time-limited read URL for the stored document.
// The bucket driver must support URL signing (fileblob needs base_url and
// secret_key_path query parameters on the bucket URL).
func (s *blobDocumentStore) SignedURL(ctx context.Context, key string) (string, error) {
	url, err := s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{
		Expiry: signedURLExpiry,
	})
	if err != nil {
		return "", errors.Wrapf(err, "sign URL for %s", key)
	}

	return url, nil
}

// Delete removes a stored document. Deleting an absent key is not an error,
// so retried cleanups stay idempotent.
func (s *blobDocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "delete document %s", key)
	}

	return nil
}
