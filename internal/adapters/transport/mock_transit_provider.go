package transport

import (
	"context"
	"fmt"
	"transit-reachability-service/internal/domain"
)

// MockTransitProvider serves fixed destinations and buckets, keyed by name.
type MockTransitProvider struct {
	destinations map[string]domain.Destination
	buckets      map[string][]domain.ReachableBucket
}

func NewMockTransitProvider(observations []domain.DestinationObservations) *MockTransitProvider {
	m := &MockTransitProvider{
		destinations: make(map[string]domain.Destination, len(observations)),
		buckets:      make(map[string][]domain.ReachableBucket, len(observations)),
	}
	for _, o := range observations {
		m.destinations[o.Destination.Name] = o.Destination
		m.buckets[o.Destination.Name] = o.Buckets
	}
	return m
}

func (m *MockTransitProvider) LookupDestination(ctx context.Context, query string) (domain.Destination, error) {
	d, ok := m.destinations[query]
	if !ok {
		return domain.Destination{}, fmt.Errorf("missing destination %q", query)
	}
	return d, nil
}

func (m *MockTransitProvider) ReachableFrom(ctx context.Context, destination domain.Destination) ([]domain.ReachableBucket, error) {
	b, ok := m.buckets[destination.Name]
	if !ok {
		return nil, fmt.Errorf("missing buckets for %q", destination.Name)
	}
	return b, nil
}
