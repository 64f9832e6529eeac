package transport

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"transit-reachability-service/internal/ports"
)

const defaultBaseURL = "https://v5.bvg.transport.rest"

var ErrDestinationMismatch = errors.New("destination mismatch")

type Config struct {
	BaseURL string
	// Upper bound passed to the reachable-from endpoint, in minutes.
	MaxDuration  int
	MaxTransfers int
	Departure    DepartureTime
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// BVGTransitProvider implements TransitProvider against the transport.rest API
// for Berlin (BVG).
//
// It coordinates:
//   - Destination lookup with a name sanity check
//   - Reachable-from queries at a fixed reference departure
//   - Optional persistent response caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type BVGTransitProvider struct {
	session *http.Client
	baseURL string
	cfg     Config
	cache   ports.ResponseCache
	now     func() time.Time
}

func NewBVGTransitProvider(cfg Config, cache ports.ResponseCache) (*BVGTransitProvider, error) {
	if cfg.MaxDuration <= 0 {
		return nil, errors.New("transit provider: max duration must be positive")
	}
	if _, err := cfg.Departure.When(time.Now()); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * 24 * time.Hour
	}

	return &BVGTransitProvider{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cfg:     cfg,
		cache:   cache,
		now:     time.Now,
	}, nil
}

// normalize collapses whitespace so equivalent queries share cache entries.
func (p *BVGTransitProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
