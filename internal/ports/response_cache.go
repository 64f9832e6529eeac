package ports

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Contract for caching raw upstream payloads keyed by request.
type ResponseCache interface {
	// Return the cached payload for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Store payload under key for ttl.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
