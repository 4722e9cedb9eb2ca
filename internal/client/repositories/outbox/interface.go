// Package outbox is the durable FIFO of write intents created while offline.
// Entries are append-only until the remote system acknowledges them; a crash
// between acknowledgment and removal may cause one duplicate submission,
// which is accepted and carried by the idempotency key.
package outbox

import (
	"context"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
)

type Repository interface {
	// Enqueue appends a payload with an auto-assigned monotonic sequence
	// number and the given idempotency key. Never merges or overwrites.
	Enqueue(ctx context.Context, idempotencyKey string, payload []byte) (int64, error)

	// ListPending returns all entries in insertion order.
	ListPending(ctx context.Context) ([]models.PendingMutation, error)

	// Remove deletes one entry. Called only after confirmed remote acceptance.
	Remove(ctx context.Context, seq int64) error

	Count(ctx context.Context) (int, error)
}
