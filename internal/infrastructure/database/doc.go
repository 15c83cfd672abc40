// Package database owns the sqlite store behind TaskDeck Core.
//
// Open returns a connection pool pinned to one connection with WAL
// journalling, a busy timeout, and foreign keys enabled (the tasks
// table cascades on project delete). Migrate applies embedded schema
// migrations in version order, one transaction per migration; the
// top-level migrations package registers the embedded files via
// MigrationsFS.
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files come in up/down pairs named
// YYYYMMDD_HHMMSS_description.{up,down}.sql. Keep up migrations
// additive (nullable or defaulted columns) so the matching down file
// stays a safe rollback.
package database
