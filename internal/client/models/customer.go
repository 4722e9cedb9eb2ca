package models

import (
	"errors"
	"strings"
)

// Customer mirrors one remote contact record.
type Customer struct {
	// ContactID is the remote identifier and local primary key.
	ContactID string

	CompanyName string
	ContactName string
	Email       string
}

// Validate checks the invariants enforced at the store boundary.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.ContactID) == "" {
		return errors.New("customer: contact id is required")
	}
	return nil
}
