// Package migrations embeds the versioned SQL schema migrations.
package migrations

import "embed"

// FS holds the ordered migration files applied by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
