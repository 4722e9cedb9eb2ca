package credentials

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

type Repository interface {
	// Save stores (or replaces) the offline credential for an account.
	// The secret must already be in its obfuscated form.
	Save(ctx context.Context, cred models.OfflineCredential) error

	// Get returns the saved credential, or nil when none exists.
	Get(ctx context.Context, accountID string) (*models.OfflineCredential, error)

	// ListAccountIDs returns every account with a saved credential, for
	// offline-login hints.
	ListAccountIDs(ctx context.Context) ([]string, error)

	Clear(ctx context.Context) error
}
