// Package migrations embeds the SQL migration files so they ship inside the
// binary and are available to tests without a working directory dependency.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
