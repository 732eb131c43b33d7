package report

import (
	"context"
	"image"
	"io"
)

// ObjectStore stores uploaded images and returns a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// DeletePrefix removes every object under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// ImageLoader fetches an image referenced by a section for rendering.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// PageCache keeps rendered pages keyed by a content hash. A miss is
// (nil, false, nil).
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, png []byte) error
}

// IdentityAdmin provisions and removes accounts at the identity provider.
type IdentityAdmin interface {
	// CreateUser returns the new account id, or a *domain.ConflictError
	// when the email is taken.
	CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error)
	// DeleteUser treats an already missing account as success.
	DeleteUser(ctx context.Context, userID string) error
}
