// Package migrations holds the versioned PostgreSQL schema.
package migrations

import "embed"

// FS contains every NNNNNN_name.{up,down}.sql file of the schema
//
//go:embed *.sql
var FS embed.FS
