package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema migration; each file registers itself in init.
var Migrations = migrate.NewMigrations()
