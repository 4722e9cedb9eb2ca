package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/common"
)

// getSimpleText and getPIN are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPIN = GetPIN

// Login prompts for an account id and PIN and tries to authenticate.
//
// The method first attempts an online login. If the server is unavailable
// (errors.Is(err, common.ErrUnavailable)), it falls back to the cached
// offline credential. On success it stores the profile and updates connectivity
// Mode:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if offline login succeeds,
//   - ModeDisabled if both fail.
//
// The PIN is securely wiped before returning. A nil error does not
// necessarily imply ModeOnline — inspect the connectivity mode for the final
// state.
func (a *App) Login(ctx context.Context) error {
	accountID, err := getSimpleText(a.reader, "Enter account id", os.Stdout)
	if err != nil {
		return err
	}

	pin, err := getPIN(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	var (
		profile *models.Profile
		mode    Mode
	)

	profile, err = a.authService.OnlineLogin(ctx, accountID, pin)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			a.log.Info(ctx, "server unavailable, trying offline login")
			profile, err = a.authService.OfflineLogin(ctx, accountID, pin)
			if err != nil {
				a.log.Warn(ctx, "offline login failed", "error", err)
				mode = ModeDisabled
			} else {
				fmt.Printf("Welcome back, %s (offline)\n", profile.Name)
				mode = ModeOffline
			}
		} else {
			a.log.Warn(ctx, "login failed", "error", err)
			mode = ModeDisabled
		}
	} else {
		fmt.Printf("Welcome, %s\n", profile.Name)
		mode = ModeOnline
	}

	a.setProfile(profile)
	a.setMode(mode)
	return nil
}

// Logout clears locally cached credentials and drops the in-memory profile.
// Catalog data and the order queue stay on the device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.ClearOfflineData(ctx); err != nil {
		return err
	}
	a.setProfile(nil)
	a.setMode(ModeDisabled)
	return nil
}
