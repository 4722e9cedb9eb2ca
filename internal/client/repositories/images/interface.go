package images

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

type Repository interface {
	// Get returns the cached image, or nil when the key is not cached.
	Get(ctx context.Context, key string) (*models.ImageBlob, error)

	// Put stores the image, overwriting any previous entry for the key.
	// The blob's Data must already be the base64 form; encoding is never
	// done inside store scopes.
	Put(ctx context.Context, blob *models.ImageBlob) error

	ListKeys(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
