package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the SQL flavour used for schema statements.
type Dialect string

const (
	Postgres Dialect = "postgres"
	Sqlite   Dialect = "sqlite"
)

// InitSchema creates the response cache table and its expiry index.
func InitSchema(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var createResponseCacheQuery string
	switch dialect {
	case Postgres:
		createResponseCacheQuery = `
	CREATE TABLE IF NOT EXISTS response_cache (
        cache_key TEXT PRIMARY KEY,
        payload BYTEA NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL
    );
	`
	case Sqlite:
		createResponseCacheQuery = `
	CREATE TABLE IF NOT EXISTS response_cache (
        cache_key TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        expires_at INTEGER NOT NULL
    );
	`
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_response_cache_expires_at
    ON response_cache(expires_at);
	`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		createResponseCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
