// Package services contains the application services of the field-sales
// client: authentication with an offline fallback, catalog/customer/stock
// sync, the order queue, image prefetch, and the orchestrator that
// coordinates them.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/client/api"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/fieldsales/internal/client/store"
	"github.com/dmitrijs2005/fieldsales/internal/common"
	"github.com/dmitrijs2005/fieldsales/internal/cryptox"
	"github.com/dmitrijs2005/fieldsales/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the server and cache an obfuscated
//     offline credential with the profile snapshot.
//   - OfflineLogin: verify against the cached credential; only used when the
//     server is unreachable, never a substitute for online verification.
//   - ListSavedAccounts: account ids usable for offline login hints.
type AuthService interface {
	OnlineLogin(ctx context.Context, accountID string, pin []byte) (*models.Profile, error)
	OfflineLogin(ctx context.Context, accountID string, pin []byte) (*models.Profile, error)
	ListSavedAccounts(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

func NewAuthService(client api.Client, st *store.Store, log logging.Logger) AuthService {
	return &authService{client: client, store: st, log: log}
}

// OnlineLogin authenticates against the server, installs the bearer token on
// the API client, and refreshes the offline credential cache.
func (a *authService) OnlineLogin(ctx context.Context, accountID string, pin []byte) (*models.Profile, error) {
	result, err := a.client.Login(ctx, accountID, pin)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.client.SetToken(result.Token)

	if err := a.saveOfflineData(ctx, accountID, pin, &result.Profile); err != nil {
		// The session is usable; only the offline fallback is degraded.
		a.log.Warn(ctx, "failed to cache offline credential", "account", accountID, "error", err)
	}
	return &result.Profile, nil
}

// OfflineLogin verifies the PIN against the locally cached obfuscated form
// and returns the cached profile snapshot on an exact match. If no
// credential is cached, returns common.ErrLocalDataNotAvailable; if
// verification fails, common.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, accountID string, pin []byte) (*models.Profile, error) {
	db, err := a.store.Open(ctx)
	if err != nil {
		return nil, err
	}

	cred, err := credentials.NewSQLiteRepository(db).Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, common.ErrLocalDataNotAvailable
	}

	if !cryptox.Verify(accountID, pin, cred.Secret) {
		return nil, common.ErrUnauthorized
	}

	snapshot, err := cryptox.Deobfuscate(accountID, string(cred.Profile))
	if err != nil {
		return nil, fmt.Errorf("corrupt cached profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(snapshot, &profile); err != nil {
		return nil, fmt.Errorf("corrupt cached profile: %w", err)
	}

	if expired, err := tokenExpired(profile.Token); err == nil && expired {
		a.log.Warn(ctx, "cached token is expired; online calls will require a fresh login", "account", accountID)
	}
	a.client.SetToken(profile.Token)

	return &profile, nil
}

func (a *authService) saveOfflineData(ctx context.Context, accountID string, pin []byte, profile *models.Profile) error {
	snapshot, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	db, err := a.store.Open(ctx)
	if err != nil {
		return err
	}

	// The snapshot carries the bearer token, so it gets the same at-rest
	// obfuscation as the PIN.
	return credentials.NewSQLiteRepository(db).Save(ctx, models.OfflineCredential{
		AccountID: accountID,
		Secret:    cryptox.Obfuscate(accountID, pin),
		Profile:   []byte(cryptox.Obfuscate(accountID, snapshot)),
		SavedAt:   time.Now().UTC(),
	})
}

func (a *authService) ListSavedAccounts(ctx context.Context) ([]string, error) {
	db, err := a.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	return credentials.NewSQLiteRepository(db).ListAccountIDs(ctx)
}

// Ping proxies a liveness probe to the remote API.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// ClearOfflineData wipes all cached credentials.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	db, err := a.store.Open(ctx)
	if err != nil {
		return err
	}
	return credentials.NewSQLiteRepository(db).Clear(ctx)
}

// tokenExpired inspects the exp claim without verifying the signature.
// Verification belongs to the server; locally the expiry is advisory only.
func tokenExpired(token string) (bool, error) {
	if token == "" {
		return true, nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, errors.New("no exp claim")
	}
	return exp.Before(time.Now()), nil
}
