// Package models defines the typed records persisted by the field-sales
// client. Records are validated once, when they enter the store; code reading
// them back may assume they are well formed.
package models

import (
	"errors"
	"strings"
)

// Product mirrors one catalog item from the supplier feed.
type Product struct {
	// ItemID is the supplier-assigned identifier and local primary key.
	ItemID string

	SKU     string
	Barcode string

	// Brand is the spelling delivered by the feed; BrandCanonical is the
	// alias-table resolution computed at sync time and used for filtering.
	Brand          string
	BrandCanonical string

	Name        string
	Description string

	// Price is the unit rate in the account currency.
	Price float64

	// Stock is quantity on hand. Updated in place by stock-only syncs.
	Stock float64

	Unit    string
	PackQty int
	Status  string

	// CreatedTime is the supplier's creation timestamp, kept verbatim.
	CreatedTime string
}

// Validate checks the invariants enforced at the store boundary.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ItemID) == "" {
		return errors.New("product: item id is required")
	}
	if p.Price < 0 {
		return errors.New("product: negative price")
	}
	return nil
}

// ProductSearch describes a cache search. Empty fields do not filter.
// Both matches are case-insensitive substrings.
type ProductSearch struct {
	// Brand matches against the canonical brand.
	Brand string
	// Text matches against name, sku and barcode.
	Text string
}

// StockUpdate is one entry of a compact stock-delta payload.
type StockUpdate struct {
	ItemID string
	Stock  float64
}
