package customers

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

type Repository interface {
	// InsertAll upserts the given records, validating each one first.
	InsertAll(ctx context.Context, items []models.Customer) error

	GetByID(ctx context.Context, contactID string) (*models.Customer, error)

	// Search matches text as a case-insensitive substring of company name,
	// contact name or email, sorted by company name ascending.
	Search(ctx context.Context, text string) ([]models.Customer, error)

	GetAll(ctx context.Context) ([]models.Customer, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
