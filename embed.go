// Package ironlog holds build-time embedded assets shared by the binaries.
package ironlog

import "embed"

// MigrationsFS contains the SQL migration files applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
