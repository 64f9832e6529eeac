package services

import (
	"context"
	"log/slog"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/logging"
)

// StopAggregator folds raw reachability buckets into stops with complete
// duration profiles.
//
// MaxDuration is the global ceiling used by the imputation policy; stops missing
// a destination are either assumed well connected or penalised with twice this value.
type StopAggregator struct {
	MaxDuration int
}

func NewStopAggregator(maxDuration int) *StopAggregator {
	return &StopAggregator{MaxDuration: maxDuration}
}

// Aggregate builds the distinct stops seen across all destinations, fills gaps via
// the imputation policy and drops stops whose weighted duration exceeds ceiling.
// Stops are returned in order of first observation.
func (a *StopAggregator) Aggregate(
	ctx context.Context,
	observations []domain.DestinationObservations,
	ceiling int,
) []*domain.Stop {
	logger := logging.FromContext(ctx)

	destinations := make([]string, 0, len(observations))
	seenDestinations := make(map[string]struct{}, len(observations))

	builders := make(map[string]*domain.StopBuilder)
	order := make([]*domain.StopBuilder, 0)

	for _, obs := range observations {
		destination := obs.Destination.Name
		if _, ok := seenDestinations[destination]; !ok {
			seenDestinations[destination] = struct{}{}
			destinations = append(destinations, destination)
		}

		for _, bucket := range obs.Buckets {
			for _, s := range bucket.Stops {
				b, ok := builders[s.Name]
				if !ok {
					b = domain.NewStopBuilder(s)
					builders[s.Name] = b
					order = append(order, b)
				}
				b.AddDuration(destination, bucket.Duration)
			}
		}
	}

	stops := make([]*domain.Stop, 0, len(order))
	for _, b := range order {
		for _, destination := range destinations {
			if !b.HasDuration(destination) {
				b.AddDurationNotFound(destination, a.MaxDuration)
			}
		}

		stop := b.Build()
		if stop.WeightedDuration() > ceiling {
			continue
		}
		stops = append(stops, stop)
	}

	logging.LogOperation(logger, "reachable_stops_aggregated",
		slog.Int("distinct_stops", len(order)),
		slog.Int("retained_stops", len(stops)),
		slog.Int("max_duration", ceiling))

	return stops
}
