package models

import (
	"errors"
	"strings"
	"time"
)

// ImageBlob is one cached product image. Data holds the binary payload
// already converted to its transportable base64 form; the conversion must
// happen before the record reaches the store (repositories only accept
// resolved values).
type ImageBlob struct {
	// Key is the sku or item identifier the image was fetched for.
	Key string

	// Data is the base64-encoded payload.
	Data string

	// Size is the decoded payload length in bytes.
	Size int

	CreatedAt time.Time
}

// Validate checks the invariants enforced at the store boundary.
func (i *ImageBlob) Validate() error {
	if strings.TrimSpace(i.Key) == "" {
		return errors.New("image: key is required")
	}
	if i.Data == "" {
		return errors.New("image: empty payload")
	}
	return nil
}
