package migrations

import "embed"

// Files holds the PostgreSQL migrations, applied in file name order
// (001_events.sql, 002_..., and so on).
//
//go:embed *.sql
var Files embed.FS
