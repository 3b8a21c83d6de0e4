package db

import "embed"

// MigrationsFS contains the account schema migrations.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
