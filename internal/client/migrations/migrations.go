// Package migrations embeds the client-side goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
