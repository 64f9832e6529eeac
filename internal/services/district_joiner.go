package services

import (
	"context"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/logging"
)

// JoinDistricts assigns every stop to every district whose polygon contains it.
// A stop may join several overlapping districts. Stops outside all districts are
// returned as orphans and are not an error.
func JoinDistricts(ctx context.Context, stops []*domain.Stop, districts []*domain.District) []*domain.Stop {
	logger := logging.FromContext(ctx)

	for _, d := range districts {
		d.ResetStations()
	}

	orphans := make([]*domain.Stop, 0)
	for _, s := range stops {
		found := false
		for _, d := range districts {
			if d.Contains(s.Coordinates()) {
				d.AddStation(s)
				found = true
			}
		}
		if !found {
			logger.Debug("stop not found in any district", "stop", s.Name())
			orphans = append(orphans, s)
		}
	}

	return orphans
}
