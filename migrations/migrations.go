// Package migrations embeds the SQL schema of every supported store.
package migrations

import "embed"

// Postgres holds the migrations applied to PostgreSQL, under "postgres/".
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations applied to SQLite, under "sqlite/".
//
//go:embed sqlite/*.sql
var SQLite embed.FS
