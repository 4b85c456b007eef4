// Package migrations embeds the goose SQL migrations for the task service schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
