package ports

import (
	"context"
	"transit-reachability-service/internal/domain"
)

// Port: a boundary for loading district polygons. Each call returns fresh
// districts with empty membership.
type DistrictSource interface {
	LoadDistricts(ctx context.Context) ([]*domain.District, error)
}
