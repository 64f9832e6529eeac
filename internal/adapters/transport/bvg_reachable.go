package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/platform/obs"
)

// Buckets under one minute (the destination's own station) are reported as one
// minute so every duration indexes the color gradient.
const minBucketDuration = 1

type reachableResponse struct {
	Duration int                `json:"duration"`
	Stations []locationResponse `json:"stations"`
}

// ReachableFrom fetches the stops reachable from destination, bucketed by duration.
// Only local modes (S-Bahn, U-Bahn, tram, bus) are considered.
func (p *BVGTransitProvider) ReachableFrom(
	ctx context.Context,
	destination domain.Destination,
) (_ []domain.ReachableBucket, err error) {
	defer obs.Time(ctx, "transport.ReachableFrom")(&err)

	when, err := p.cfg.Departure.When(p.now())
	if err != nil {
		return nil, fmt.Errorf("reachable from %q: %w", destination.Name, err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(destination.Coordinates.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(destination.Coordinates.Lon, 'f', -1, 64))
	params.Set("address", destination.Name)
	params.Set("when", when.Format(time.RFC3339))
	params.Set("maxTransfers", strconv.Itoa(p.cfg.MaxTransfers))
	params.Set("maxDuration", strconv.Itoa(p.cfg.MaxDuration))
	params.Set("suburban", "true")
	params.Set("subway", "true")
	params.Set("tram", "true")
	params.Set("bus", "true")
	params.Set("ferry", "false")
	params.Set("express", "false")
	params.Set("regional", "false")

	body, err := p.getCached(ctx, "/stops/reachable-from", params)
	if err != nil {
		return nil, fmt.Errorf("reachable from %q: %w", destination.Name, err)
	}

	var decoded []reachableResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("reachable from %q: decode response: %w", destination.Name, err)
	}

	total := 0
	buckets := make([]domain.ReachableBucket, 0, len(decoded))
	for _, r := range decoded {
		stops := make([]domain.StopObservation, 0, len(r.Stations))
		for _, s := range r.Stations {
			stops = append(stops, s.toObservation())
		}
		total += len(stops)
		buckets = append(buckets, domain.ReachableBucket{
			Duration: max(r.Duration, minBucketDuration),
			Stops:    stops,
		})
	}

	logging.LogOperation(logging.FromContext(ctx), "reachable_stops_fetched",
		slog.String("destination", destination.Name),
		slog.Int("non_distinct_stations", total),
		slog.String("when", when.Format(time.RFC3339)),
		slog.Int("max_duration", p.cfg.MaxDuration))

	return buckets, nil
}
