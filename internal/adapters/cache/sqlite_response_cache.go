package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"transit-reachability-service/internal/platform/obs"
	"transit-reachability-service/internal/ports"
)

// SQLite backed cache of raw transit API payloads.
// Expiry is stored as unix seconds.
type SqliteResponseCache struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSqliteResponseCache(db *sql.DB) *SqliteResponseCache {
	return &SqliteResponseCache{DB: db, Now: time.Now}
}

// Fetch the cached payload for key if it has not expired.
func (s *SqliteResponseCache) Get(ctx context.Context, key string) (_ []byte, err error) {
	defer obs.Time(ctx, "response.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("response cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("get response cache: key must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
    FROM response_cache
    WHERE cache_key = ?
        AND expires_at > ?;
	`, key, s.Now().Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get response cache: query response_cache table: %w", err)
	}

	return payload, nil
}

// Store payload under key, replacing any previous entry.
func (s *SqliteResponseCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if s.DB == nil {
		return errors.New("response cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert response cache: empty key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO response_cache (
        cache_key,
        payload,
        expires_at
    )
    VALUES (?, ?, ?);
	`, key, payload, s.Now().Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("insert response cache key=%q: %w", key, err)
	}

	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (s *SqliteResponseCache) PurgeExpired(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("response cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM response_cache WHERE expires_at <= ?;`, s.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge response cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge response cache: rows affected: %w", err)
	}
	return n, nil
}
