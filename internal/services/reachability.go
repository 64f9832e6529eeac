package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Upper bound on concurrent destination fetches against the transit API.
const fetchConcurrency = 4

type RunRequest struct {
	Destinations []string
	MaxDuration  int
}

// RunResult is the output of one reachability run. It is owned by the caller
// and never mutated once returned.
type RunResult struct {
	Destinations []domain.Destination
	Stops        []*domain.Stop
	Districts    []*domain.District
	Orphans      []*domain.Stop
	Colors       *ColorMapper
	MaxDuration  int
}

// Reachability wires the fetch collaborator, the aggregation core and the
// district geometry into a single run.
type Reachability struct {
	Provider  ports.TransitProvider
	Districts ports.DistrictSource
}

// Run fetches all observations, then aggregates, joins and summarizes them.
// Fetch and geometry failures abort the run; sparse observations do not.
func (r *Reachability) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if len(req.Destinations) == 0 {
		return nil, errors.New("run reachability: at least one destination is required")
	}
	if req.MaxDuration < 1 {
		return nil, fmt.Errorf("run reachability: max duration must be positive, got %d", req.MaxDuration)
	}

	observations, err := FetchObservations(ctx, r.Provider, req.Destinations)
	if err != nil {
		return nil, fmt.Errorf("run reachability: %w", err)
	}

	districts, err := r.Districts.LoadDistricts(ctx)
	if err != nil {
		return nil, fmt.Errorf("run reachability: load districts: %w", err)
	}

	return Compute(ctx, observations, districts, req.MaxDuration), nil
}

// Compute runs the pure aggregation core over fully materialized inputs.
func Compute(
	ctx context.Context,
	observations []domain.DestinationObservations,
	districts []*domain.District,
	maxDuration int,
) *RunResult {
	stops := NewStopAggregator(maxDuration).Aggregate(ctx, observations, maxDuration)
	orphans := JoinDistricts(ctx, stops, districts)
	SummarizeDistricts(districts)

	destinations := make([]domain.Destination, 0, len(observations))
	for _, o := range observations {
		destinations = append(destinations, o.Destination)
	}

	logging.LogOperation(logging.FromContext(ctx), "reachability_computed",
		slog.Int("destinations", len(destinations)),
		slog.Int("stops", len(stops)),
		slog.Int("districts", len(districts)),
		slog.Int("orphans", len(orphans)))

	return &RunResult{
		Destinations: destinations,
		Stops:        stops,
		Districts:    districts,
		Orphans:      orphans,
		Colors:       NewColorMapper(maxDuration),
		MaxDuration:  maxDuration,
	}
}

// FetchObservations resolves every destination and fetches its reachability buckets.
// Destinations are fetched concurrently; results keep the configured order.
func FetchObservations(
	ctx context.Context,
	provider ports.TransitProvider,
	names []string,
) ([]domain.DestinationObservations, error) {
	out := make([]domain.DestinationObservations, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, name := range names {
		g.Go(func() error {
			dest, err := provider.LookupDestination(gctx, name)
			if err != nil {
				return fmt.Errorf("fetch observations: lookup %q: %w", name, err)
			}
			if err := dest.Coordinates.Validate(); err != nil {
				return fmt.Errorf("fetch observations: destination %q: %w", dest.Name, err)
			}

			buckets, err := provider.ReachableFrom(gctx, dest)
			if err != nil {
				return fmt.Errorf("fetch observations: reachable from %q: %w", dest.Name, err)
			}
			for _, b := range buckets {
				for _, s := range b.Stops {
					if err := s.Coordinates.Validate(); err != nil {
						return fmt.Errorf("fetch observations: stop %q: %w", s.Name, err)
					}
				}
			}

			out[i] = domain.DestinationObservations{Destination: dest, Buckets: buckets}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
