package models

import "time"

// Profile is the cached remote profile snapshot returned by login and
// replayed during offline login.
type Profile struct {
	Name   string   `json:"name"`
	Brands []string `json:"brands"`
	Admin  bool     `json:"admin"`

	// Token is the bearer credential from the last online login. It may be
	// expired by the time offline login replays it; expiry is advisory only.
	Token string `json:"token"`
}

// OfflineCredential is one saved offline login. Secret holds the obfuscated
// form of the PIN, never the plain text; Profile holds the obfuscated JSON
// profile snapshot (it carries the bearer token).
type OfflineCredential struct {
	AccountID string
	Secret    string
	Profile   []byte
	SavedAt   time.Time
}
