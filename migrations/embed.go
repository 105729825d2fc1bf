// Package migrations embeds the SQL schema so the server and tests can migrate
// without depending on the working directory.
package migrations

import "embed"

// FS holds every NNN_name.sql migration file.
//
//go:embed *.sql
var FS embed.FS
