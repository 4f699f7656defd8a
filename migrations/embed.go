// Package migrations embeds the SQL schema migrations applied by
// sqlite.DB.RunMigrations.
package migrations

import "embed"

// FS holds the *.up.sql files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
