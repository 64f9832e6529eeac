package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Stop is a transit stop with a complete duration profile: one duration (in minutes)
// per known destination. Stops are produced by StopBuilder.Build and are read-only.
type Stop struct {
	name        string
	coordinates Coordinates
	products    Products
	durations   map[string]int
}

func (s *Stop) Name() string             { return s.name }
func (s *Stop) Coordinates() Coordinates { return s.coordinates }
func (s *Stop) Products() Products       { return s.products }

func (s *Stop) String() string { return fmt.Sprintf("Stop(%s)", s.name) }

// Duration returns the duration recorded for destination.
func (s *Stop) Duration(destination string) (int, bool) {
	d, ok := s.durations[destination]
	return d, ok
}

// Durations returns a copy of the duration profile.
func (s *Stop) Durations() map[string]int { return maps.Clone(s.durations) }

// DestinationNames returns the destinations of the profile in sorted order.
func (s *Stop) DestinationNames() []string {
	return slices.Sorted(maps.Keys(s.durations))
}

// WeightedDuration is the truncated mean of the per-destination durations.
func (s *Stop) WeightedDuration() int { return weightedDuration(s.durations) }

// StopBuilder accumulates durations for a single stop during aggregation.
// It is owned by the aggregator and frozen with Build.
type StopBuilder struct {
	name        string
	coordinates Coordinates
	products    Products
	durations   map[string]int
}

// NewStopBuilder takes identity attributes from the first observation of a stop.
func NewStopBuilder(obs StopObservation) *StopBuilder {
	return &StopBuilder{
		name:        obs.Name,
		coordinates: obs.Coordinates,
		products:    obs.Products,
		durations:   make(map[string]int),
	}
}

func (b *StopBuilder) Name() string { return b.name }

func (b *StopBuilder) HasDuration(destination string) bool {
	_, ok := b.durations[destination]
	return ok
}

// AddDuration records duration for destination, keeping the shortest one seen.
func (b *StopBuilder) AddDuration(destination string, duration int) {
	if current, ok := b.durations[destination]; ok {
		b.durations[destination] = min(current, duration)
		return
	}
	b.durations[destination] = duration
}

// ImputationThreshold is the weighted duration below which a stop missing a
// destination is assumed to be served but unreported by the API.
const ImputationThreshold = 20

// AddDurationNotFound fills a destination the API never reported for this stop.
// Some central stops are missing from upstream results, so well connected stops
// get their current weighted duration. Everything else gets twice maxDuration,
// which pushes it past the ceiling filter.
func (b *StopBuilder) AddDurationNotFound(destination string, maxDuration int) {
	if len(b.durations) >= 1 && b.WeightedDuration() < ImputationThreshold {
		b.durations[destination] = b.WeightedDuration()
		return
	}
	b.durations[destination] = maxDuration * 2
}

func (b *StopBuilder) WeightedDuration() int { return weightedDuration(b.durations) }

// Build freezes the builder into an immutable Stop.
func (b *StopBuilder) Build() *Stop {
	return &Stop{
		name:        b.name,
		coordinates: b.coordinates,
		products:    b.products,
		durations:   maps.Clone(b.durations),
	}
}

func weightedDuration(durations map[string]int) int {
	if len(durations) == 0 {
		panic("weighted duration: stop has no durations")
	}
	sum := 0
	for _, d := range durations {
		sum += d
	}
	return sum / len(durations)
}
