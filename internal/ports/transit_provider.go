package ports

import (
	"context"
	"transit-reachability-service/internal/domain"
)

// Contract for the transit API that supplies destinations and reachability buckets.
type TransitProvider interface {
	// Resolve a configured destination name to a concrete location.
	LookupDestination(ctx context.Context, query string) (domain.Destination, error)
	// Return the stops reachable from destination, bucketed by travel duration.
	ReachableFrom(ctx context.Context, destination domain.Destination) ([]domain.ReachableBucket, error)
}
