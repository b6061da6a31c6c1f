// Package migrations embeds the goose SQL migrations for the content
// and character stores.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
