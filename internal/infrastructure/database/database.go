package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// dbDirMode restricts the database directory to the service user.
	dbDirMode = 0750

	// dbFileMode keeps the database file owner read/write only.
	dbFileMode = 0600

	// openPingTimeout bounds the connectivity check during Open.
	openPingTimeout = 5 * time.Second
)

// DB wraps an sqlite connection pool for the TaskDeck store.
//
// Foreign keys are always enabled: task rows cascade when their parent
// project is deleted, and that only works with the pragma on. The pool
// is pinned to a single connection because sqlite allows one writer and
// per-connection pragmas would otherwise drift.
type DB struct {
	*sql.DB
	path string
}

// Config holds the database section of config.yaml.
type Config struct {
	// Path is the sqlite file location. Parent directories are created
	// on first open.
	Path string

	// WALMode switches the journal to write-ahead logging so reads do
	// not block behind the writer.
	WALMode bool

	// BusyTimeout is how long a statement waits on a lock, in seconds.
	BusyTimeout int
}

// dsn builds the go-sqlite3 connection string for cfg.
// Pragma keys are documented at github.com/mattn/go-sqlite3.
func dsn(cfg Config) string {
	busyMS := cfg.BusyTimeout * 1000
	if busyMS < 0 {
		busyMS = 0
	}

	s := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", cfg.Path, busyMS)
	if cfg.WALMode {
		s += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return s
}

// Open connects to the sqlite database at cfg.Path, creating the file
// and its directory when missing, and verifies the connection with a
// bounded ping before returning.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dbDirMode); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection total: sqlite has a single writer, and pragmas
	// set through the DSN apply per connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: sqlDB, path: cfg.Path}

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Tighten file permissions. The file may not exist yet on a fresh
	// open, so the error is ignored.
	_ = os.Chmod(cfg.Path, dbFileMode) //nolint:errcheck // First write creates the file

	return db, nil
}

// Close shuts the connection pool down. Safe to call on a DB whose
// pool was already released.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the sqlite file location this DB was opened with.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query to prove the connection is usable.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// ExecContext wraps sql.DB.ExecContext with wrapped errors.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// QueryRowContext wraps sql.DB.QueryRowContext for single-row reads.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction. Callers defer tx.Rollback(), which is
// a no-op once the transaction commits.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}
