// Package migrations embeds the checkout schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
