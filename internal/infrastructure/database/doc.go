// Package database provides SQLite connectivity for the simulator's
// persistent store (saved rig snapshots).
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Versioned schema migrations (up and down)
//   - Connection lifecycle and a health check
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are registered by importing the migrations package, which sets
// MigrationsFS from its embedded *.sql files.
package database
