package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alexanderplatzJSON = `[{
	"type": "stop",
	"id": "900000100003",
	"name": "S+U Alexanderplatz",
	"location": {"type": "location", "latitude": 52.521508, "longitude": 13.411267},
	"products": {"suburban": true, "subway": true, "tram": true, "bus": true, "ferry": false, "express": false, "regional": true}
}]`

const reachableJSON = `[
	{"duration": 2, "stations": [
		{"name": "U Klosterstr.", "location": {"latitude": 52.517, "longitude": 13.412}, "products": {"subway": true}}
	]},
	{"duration": 5, "stations": [
		{"name": "U Klosterstr.", "location": {"latitude": 52.517, "longitude": 13.412}, "products": {"subway": true}},
		{"name": "S Hackescher Markt", "location": {"latitude": 52.5225, "longitude": 13.4024}, "products": {"suburban": true, "tram": true}}
	]}
]`

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = payload
	return nil
}

func newTestProvider(t *testing.T, baseURL string, cache ports.ResponseCache) *BVGTransitProvider {
	t.Helper()
	p, err := NewBVGTransitProvider(Config{
		BaseURL:      baseURL,
		MaxDuration:  90,
		MaxTransfers: 3,
		Departure:    NextWorkdayNoon,
	}, cache)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return p
}

func TestLookupDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations", r.URL.Path)
		assert.Equal(t, "Alexanderplatz", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("results"))
		fmt.Fprint(w, alexanderplatzJSON)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	dest, err := p.LookupDestination(context.Background(), "  Alexanderplatz ")
	require.NoError(t, err)
	assert.Equal(t, "S+U Alexanderplatz", dest.Name)
	assert.Equal(t, domain.Coordinates{Lat: 52.521508, Lon: 13.411267}, dest.Coordinates)
	assert.True(t, dest.Products.Suburban)
	assert.True(t, dest.Products.Regional)
	assert.False(t, dest.Products.Ferry)
}

func TestLookupDestinationMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, alexanderplatzJSON)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.LookupDestination(context.Background(), "Mehringdamm")
	require.ErrorIs(t, err, ErrDestinationMismatch)
}

func TestLookupDestinationNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.LookupDestination(context.Background(), "Nowhere")
	require.Error(t, err)
}

func TestReachableFrom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/stops/reachable-from", r.URL.Path)
		assert.Equal(t, "52.521508", q.Get("latitude"))
		assert.Equal(t, "13.411267", q.Get("longitude"))
		assert.Equal(t, "S+U Alexanderplatz", q.Get("address"))
		assert.Equal(t, "2026-10-19T12:00:00+02:00", q.Get("when"))
		assert.Equal(t, "90", q.Get("maxDuration"))
		assert.Equal(t, "3", q.Get("maxTransfers"))
		assert.Equal(t, "true", q.Get("bus"))
		assert.Equal(t, "false", q.Get("ferry"))
		fmt.Fprint(w, reachableJSON)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	dest := domain.Destination{Name: "S+U Alexanderplatz", Coordinates: domain.Coordinates{Lat: 52.521508, Lon: 13.411267}}
	buckets, err := p.ReachableFrom(context.Background(), dest)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets[0].Duration)
	assert.Equal(t, "U Klosterstr.", buckets[0].Stops[0].Name)
	assert.Equal(t, 52.517, buckets[0].Stops[0].Coordinates.Lat)
	require.Len(t, buckets[1].Stops, 2)
	assert.True(t, buckets[1].Stops[1].Products.Tram)
}

func TestReachableFromRaisesZeroMinuteBucket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"duration": 0, "stations": [
			{"name": "S+U Alexanderplatz", "location": {"latitude": 52.521508, "longitude": 13.411267}}
		]}]`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	buckets, err := p.ReachableFrom(context.Background(), domain.Destination{Name: "S+U Alexanderplatz"})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Duration)
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, alexanderplatzJSON)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.LookupDestination(context.Background(), "Alexanderplatz")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.LookupDestination(context.Background(), "Alexanderplatz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestResponsesAreCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, alexanderplatzJSON)
	}))
	defer srv.Close()

	cache := &memoryCache{data: map[string][]byte{}}
	p := newTestProvider(t, srv.URL, cache)

	for i := 0; i < 3; i++ {
		_, err := p.LookupDestination(context.Background(), "Alexanderplatz")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, cache.data, "/locations?query=Alexanderplatz&results=1")
}

func TestNewBVGTransitProviderValidates(t *testing.T) {
	_, err := NewBVGTransitProvider(Config{MaxDuration: 0, Departure: NextWorkdayNoon}, nil)
	assert.Error(t, err)

	_, err = NewBVGTransitProvider(Config{MaxDuration: 30, Departure: "someday"}, nil)
	assert.Error(t, err)

	p, err := NewBVGTransitProvider(Config{MaxDuration: 30, Departure: NextSundayEarlyMorning}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, p.baseURL)
}
