package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MigrationsFS holds the embedded schema migration files. The
// top-level migrations package registers its embed.FS here from an
// init func, which keeps this package free of an import cycle.
var MigrationsFS embed.FS

// MigrationsDir is the directory inside MigrationsFS holding the
// migration files. "." when the files sit at the FS root.
var MigrationsDir = "migrations"

// versionTable records which migrations have been applied.
const versionTable = "schema_migrations"

// migration is one schema change, parsed from a pair of files named
// VERSION_description.up.sql / VERSION_description.down.sql where
// VERSION is YYYYMMDD_HHMMSS.
type migration struct {
	version string
	name    string
	up      string
	down    string
}

// Migrate applies every pending migration in version order.
//
// Each migration runs in its own transaction: a failure rolls back
// that migration only, earlier ones stay committed, and re-running
// Migrate after a fix resumes from the failed version. The projects
// and tasks tables this service depends on are created here.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.ensureVersionTable(ctx); err != nil {
		return err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	if len(migrations) == 0 {
		return nil
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, done := applied[m.version]; done {
			continue
		}
		if err := db.runMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// MigrateDown rolls back the most recently applied migration. Used in
// development and tests; the service itself only migrates forward.
func (db *DB) MigrateDown(ctx context.Context) error {
	if err := db.ensureVersionTable(ctx); err != nil {
		return err
	}

	latest, err := db.latestVersion(ctx)
	if err != nil {
		return err
	}
	if latest == "" {
		return nil
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var target *migration
	for i := range migrations {
		if migrations[i].version == latest {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("applied migration %s not found in embedded files", latest)
	}
	if target.down == "" {
		return fmt.Errorf("migration %s has no down file", latest)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, target.down); err != nil {
		return fmt.Errorf("rolling back migration %s: %w", latest, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+versionTable+" WHERE version = ?", latest,
	); err != nil {
		return fmt.Errorf("clearing migration record %s: %w", latest, err)
	}
	return tx.Commit()
}

func (db *DB) ensureVersionTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+versionTable+` (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating %s table: %w", versionTable, err)
	}
	return nil
}

// appliedVersions returns the set of versions already recorded.
func (db *DB) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := db.DB.QueryContext(ctx, "SELECT version FROM "+versionTable)
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applied migrations: %w", err)
	}
	return applied, nil
}

// latestVersion returns the highest applied version, or "" when no
// migration has run. Versions are date-prefixed so lexical max is
// chronological max.
func (db *DB) latestVersion(ctx context.Context) (string, error) {
	var v sql.NullString
	err := db.QueryRowContext(ctx,
		"SELECT MAX(version) FROM "+versionTable,
	).Scan(&v)
	if err != nil {
		return "", fmt.Errorf("querying latest migration: %w", err)
	}
	return v.String, nil
}

// runMigration executes one up migration and records it, atomically.
func (db *DB) runMigration(ctx context.Context, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, m.up); err != nil {
		return fmt.Errorf("executing up SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+versionTable+" (version, applied_at) VALUES (?, ?)",
		m.version, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// loadMigrations reads the embedded migration files and pairs each
// version's up and down halves, sorted oldest first. A down file with
// no matching up file is an error; stray non-migration files are
// ignored.
func loadMigrations() ([]migration, error) {
	var none embed.FS
	if MigrationsFS == none {
		return nil, nil
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		// No directory means no migrations to run.
		return nil, nil
	}

	byVersion := make(map[string]*migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, isUp, ok := splitMigrationFile(entry.Name())
		if !ok {
			continue
		}

		sqlText, err := fs.ReadFile(MigrationsFS, path.Join(MigrationsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		}
		if isUp {
			m.up = string(sqlText)
		} else {
			m.down = string(sqlText)
		}
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %s (%s): %w", m.version, m.name, errMissingUpFile)
		}
		migrations = append(migrations, *m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

// errMissingUpFile reports a down file whose up counterpart is absent.
var errMissingUpFile = errors.New("down file has no matching up file")

// splitMigrationFile parses a migration filename into its version
// (YYYYMMDD_HHMMSS), descriptive name, and direction.
//
//	20260801_120000_create_projects.up.sql -> "20260801_120000", "create_projects", up
func splitMigrationFile(filename string) (version, name string, isUp, ok bool) {
	base, found := strings.CutSuffix(filename, ".sql")
	if !found {
		return "", "", false, false
	}

	switch {
	case strings.HasSuffix(base, ".up"):
		isUp = true
		base = strings.TrimSuffix(base, ".up")
	case strings.HasSuffix(base, ".down"):
		base = strings.TrimSuffix(base, ".down")
	default:
		return "", "", false, false
	}

	// VERSION is the first two underscore fields; the rest is the name.
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", false, false
	}
	return parts[0] + "_" + parts[1], parts[2], isUp, true
}
