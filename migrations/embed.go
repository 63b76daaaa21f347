// Package migrations embeds the SQL migration files into the binary.
//
// Importing this package (usually with a blank import from main) registers
// the files with the database package, so the binary needs no SQL on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
