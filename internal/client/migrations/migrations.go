// Package migrations embeds the client database schema as goose SQL
// migrations. The schema version of the store is the highest applied
// migration; upgrades are additive only (new tables, new columns, new
// indexes), never destructive, so records written by older versions
// survive every upgrade.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
