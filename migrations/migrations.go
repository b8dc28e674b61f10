// Package migrations embeds the schema migrations of every supported store.
package migrations

import "embed"

// Postgres holds the migrations under the "postgres" directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations under the "sqlite" directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
