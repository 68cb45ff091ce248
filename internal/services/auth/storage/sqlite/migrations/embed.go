// Package migrations contains embedded SQL migrations for the auth SQLite store.
package migrations

import "embed"

// FS holds the auth schema migrations.
//
//go:embed *.sql
var FS embed.FS
