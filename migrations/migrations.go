// Package migrations embeds the database schema so tests and tooling can
// apply it without a checkout-relative path.
package migrations

import _ "embed"

//go:embed 0001_init.sql
var Schema string
