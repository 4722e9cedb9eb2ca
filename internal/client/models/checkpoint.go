package models

import "time"

// Checkpoint names, one per sync kind.
const (
	CheckpointCatalog   = "catalog"
	CheckpointCustomers = "customers"
	CheckpointStock     = "stock"
	CheckpointImages    = "images"
)

// Checkpoint records when and how much a given sync kind last completed.
type Checkpoint struct {
	Name        string
	LastSuccess time.Time
	Count       int
}
