// Package common defines shared constants and sentinel errors used across
// the field-sales client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Connectivity errors: the remote endpoint could not be reached at all.
	// Always recoverable; callers defer work or fall back to cached data.
	ErrUnavailable = errors.New("server unavailable")

	// Remote errors: the server answered but rejected or garbled the exchange.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRemote           = errors.New("remote error")
	ErrMalformedPayload = errors.New("malformed payload")

	// Storage errors. ErrStorageFull is kept distinct from other failures so
	// the UI can suggest a cache clear instead of a retry.
	ErrStorageFull = errors.New("local storage full")
	ErrStoreClosed = errors.New("store not open")

	// ErrSyncInFlight is returned when a sync of the same kind is already
	// running; the redundant trigger is dropped rather than queued.
	ErrSyncInFlight = errors.New("sync already in progress")

	// ErrLocalDataNotAvailable means no cached credentials exist for an
	// offline login attempt.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
