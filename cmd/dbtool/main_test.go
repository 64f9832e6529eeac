package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
	"transit-reachability-service/internal/adapters/cache"
	"transit-reachability-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInitializesAndPurgesSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("DATABASE_URL", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, run(context.Background(), logger, "", false))

	conn, err := db.OpenSqlite(path)
	require.NoError(t, err)
	c := cache.NewSqliteResponseCache(conn)
	require.NoError(t, c.Put(context.Background(), "fresh", []byte("y"), time.Hour))
	c.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	require.NoError(t, c.Put(context.Background(), "stale", []byte("x"), time.Hour))
	require.NoError(t, conn.Close())

	require.NoError(t, run(context.Background(), logger, "sqlite", true))

	conn, err = db.OpenSqlite(path)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM response_cache`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRunRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), logger, "postgres", false)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, run(context.Background(), logger, "oracle", false))
}
