package checkpoints

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

type Repository interface {
	// Get returns the checkpoint for the given sync kind, or nil if that
	// kind has never completed.
	Get(ctx context.Context, name string) (*models.Checkpoint, error)

	// Upsert records a successful sync pass, replacing any previous
	// checkpoint of the same kind.
	Upsert(ctx context.Context, cp models.Checkpoint) error

	All(ctx context.Context) ([]models.Checkpoint, error)
}
