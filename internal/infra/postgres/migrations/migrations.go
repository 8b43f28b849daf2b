package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema migration, registered from the dated files.
var Migrations = migrate.NewMigrations()
