// Package migrations embeds the schema migrations for every SQL store.
package migrations

import "embed"

// FS holds one directory per driver: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
