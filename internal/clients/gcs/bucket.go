package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Bucket stores report images in one GCS bucket and serves them through
// the CDN domain when configured.
type Bucket struct {
	client    *storage.Client
	name      string
	cdnDomain string
	logger    *slog.Logger
}

// NewBucket opens a storage client for bucket.
func NewBucket(ctx context.Context, bucket, cdnDomain string, logger *slog.Logger) (*Bucket, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Bucket{
		client:    client,
		name:      bucket,
		cdnDomain: cdnDomain,
		logger:    logger.With("bucket", bucket),
	}, nil
}

// Upload writes r to key and returns its public URL.
func (b *Bucket) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer for %s: %w", key, err)
	}

	b.logger.Debug("object uploaded", "key", key, "content_type", contentType)
	return PublicURL(b.name, b.cdnDomain, key), nil
}

// DeletePrefix removes every object whose key starts with prefix.
func (b *Bucket) DeletePrefix(ctx context.Context, prefix string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	it := b.client.Bucket(b.name).Objects(ctx, &storage.Query{Prefix: prefix})
	var errs []error
	deleted := 0
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		if err := b.client.Bucket(b.name).Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("delete %s: %w", attrs.Name, err))
			continue
		}
		deleted++
	}

	b.logger.Info("objects deleted", "prefix", prefix, "count", deleted)
	return errors.Join(errs...)
}

// Close releases the storage client.
func (b *Bucket) Close() error {
	return b.client.Close()
}

// PublicURL is the address an uploaded object is served from.
func PublicURL(bucket, cdnDomain, key string) string {
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}
