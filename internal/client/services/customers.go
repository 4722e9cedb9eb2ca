package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/checkpoints"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/customers"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/dbx"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
)

const maxCustomerPages = 50

// CustomersService mirrors the remote contact list locally.
type CustomersService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

func NewCustomersService(client api.Client, st *store.Store, log logging.Logger) *CustomersService {
	return &CustomersService{client: client, store: st, log: log}
}

// SyncCustomers replaces the whole local customer collection. A failure at
// any point aborts the pass with the previous data intact.
func (s *CustomersService) SyncCustomers(ctx context.Context) (int, error) {
	var all []models.Customer
	for page := 1; page <= maxCustomerPages; page++ {
		result, err := s.client.FetchCustomersPage(ctx, page)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch customers page %d: %w", page, err)
		}
		all = append(all, result.Customers...)
		if !result.HasMore {
			break
		}
	}

	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := customers.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if err := repo.InsertAll(ctx, all); err != nil {
			return err
		}
		return checkpoints.NewSQLiteRepository(tx).Upsert(ctx, models.Checkpoint{
			Name:        models.CheckpointCustomers,
			LastSuccess: time.Now().UTC(),
			Count:       len(all),
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store customers: %w", store.Classify(err))
	}

	s.log.Info(ctx, "customer sync complete", "customers", len(all))
	return len(all), nil
}

// Search queries the local mirror.
func (s *CustomersService) Search(ctx context.Context, text string) ([]models.Customer, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return customers.NewSQLiteRepository(db).Search(ctx, text)
}

// Count reports the size of the local mirror.
func (s *CustomersService) Count(ctx context.Context) (int, error) {
	db, err := s.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	return customers.NewSQLiteRepository(db).Count(ctx)
}
