package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"transit-reachability-service/internal/adapters/cache"
	"transit-reachability-service/internal/adapters/repositories"
	"transit-reachability-service/internal/config"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/platform/db"

	"github.com/joho/godotenv"
)

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func main() {
	backend := flag.String("backend", "", "cache backend: postgres or sqlite (default: postgres when DATABASE_URL is set)")
	purge := flag.Bool("purge", false, "delete expired response cache entries after schema initialisation")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(config.Get("LOG_LEVEL", "info")), "text")

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(context.Background(), logger, *backend, *purge); err != nil {
		logging.LogError(logger, "dbtool failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, backend string, purge bool) error {
	databaseURL := config.Get("DATABASE_URL", "")
	if backend == "" {
		backend = "sqlite"
		if databaseURL != "" {
			backend = "postgres"
		}
	}

	var (
		conn    *sql.DB
		dialect repositories.Dialect
		err     error
	)
	switch strings.ToLower(backend) {
	case "postgres":
		if databaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		dialect = repositories.Postgres
		conn, err = db.Open(databaseURL)
	case "sqlite":
		dialect = repositories.Sqlite
		conn, err = db.OpenSqlite(config.Get("SQLITE_PATH", "data/cache.db"))
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(conn, logger, "close database")

	logger.Info("initializing database schema", slog.String("backend", string(dialect)))
	if err := repositories.InitSchema(conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	if !purge {
		return nil
	}

	var p purger = cache.NewSQLResponseCache(conn)
	if dialect == repositories.Sqlite {
		p = cache.NewSqliteResponseCache(conn)
	}

	n, err := p.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	logging.LogOperation(logger, "expired_entries_purged", slog.Int64("deleted", n))
	return nil
}
