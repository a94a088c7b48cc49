package migrations

import "embed"

// FS contains the embedded SQLite schema for board storage.
//
//go:embed *.sql
var FS embed.FS
