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

// SQLResponseCache is a postgres-backed cache of raw transit API payloads.
type SQLResponseCache struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSQLResponseCache(db *sql.DB) *SQLResponseCache {
	return &SQLResponseCache{DB: db, Now: time.Now}
}

// Fetch the cached payload for key if it has not expired.
func (s *SQLResponseCache) Get(ctx context.Context, key string) (_ []byte, err error) {
	defer obs.Time(ctx, "response.cache.Get")(&err)

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
    WHERE cache_key = $1
        AND expires_at > $2;
	`, key, s.Now().UTC()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get response cache: query response_cache table: %w", err)
	}

	return payload, nil
}

// Store payload under key, replacing any previous entry.
func (s *SQLResponseCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if s.DB == nil {
		return errors.New("response cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert response cache: empty key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO response_cache (cache_key, payload, expires_at)
    VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, key, payload, s.Now().UTC().Add(ttl))
	if err != nil {
		return fmt.Errorf("insert response cache key=%q: %w", key, err)
	}

	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (s *SQLResponseCache) PurgeExpired(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("response cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM response_cache WHERE expires_at <= $1;`, s.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge response cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge response cache: rows affected: %w", err)
	}
	return n, nil
}
