package models

import (
	"errors"
	"strings"
	"time"
)

// OrderLine is one position of an order.
type OrderLine struct {
	SKU string  `json:"sku"`
	Qty float64 `json:"qty"`
}

// OrderPayload is the order submission body. It is serialized once at
// enqueue time and replayed verbatim when the queue drains.
type OrderPayload struct {
	CustomerID string      `json:"customerId"`
	Lines      []OrderLine `json:"lines"`
	Note       string      `json:"note,omitempty"`
}

// Validate checks the payload before it is accepted into the queue.
func (o *OrderPayload) Validate() error {
	if strings.TrimSpace(o.CustomerID) == "" {
		return errors.New("order: customer id is required")
	}
	if len(o.Lines) == 0 {
		return errors.New("order: no lines")
	}
	for _, l := range o.Lines {
		if strings.TrimSpace(l.SKU) == "" {
			return errors.New("order: line without sku")
		}
		if l.Qty <= 0 {
			return errors.New("order: non-positive quantity")
		}
	}
	return nil
}

// PendingMutation is one queued write intent. Seq is assigned by the store
// and defines FIFO drain order. IdempotencyKey is generated client-side at
// enqueue time and sent with every submission attempt, so a replay after a
// crash carries the same key.
type PendingMutation struct {
	Seq            int64
	IdempotencyKey string
	Payload        []byte
	CreatedAt      time.Time
}
