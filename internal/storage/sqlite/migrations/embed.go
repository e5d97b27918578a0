package migrations

import "embed"

// FS contains embedded SQLite migrations for node storage.
//
//go:embed *.sql
var FS embed.FS
