package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/platform/obs"
)

type locationResponse struct {
	Name     string `json:"name"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Products domain.Products `json:"products"`
}

func (l locationResponse) toObservation() domain.StopObservation {
	return domain.StopObservation{
		Name: l.Name,
		Coordinates: domain.Coordinates{
			Lat: l.Location.Latitude,
			Lon: l.Location.Longitude,
		},
		Products: l.Products,
	}
}

// LookupDestination resolves query through /locations and takes the best match.
// The match must contain the query (case-insensitive), otherwise the API picked a
// different place and ErrDestinationMismatch is returned.
func (p *BVGTransitProvider) LookupDestination(
	ctx context.Context,
	query string,
) (_ domain.Destination, err error) {
	defer obs.Time(ctx, "transport.LookupDestination")(&err)

	norm := p.normalize(query)
	if norm == "" {
		return domain.Destination{}, errors.New("lookup destination: query must be non-empty")
	}

	params := url.Values{}
	params.Set("query", norm)
	params.Set("results", "1")

	body, err := p.getCached(ctx, "/locations", params)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("lookup destination %q: %w", norm, err)
	}

	var decoded []locationResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Destination{}, fmt.Errorf("lookup destination %q: decode locations response: %w", norm, err)
	}

	if len(decoded) == 0 {
		return domain.Destination{}, fmt.Errorf("lookup destination: no location results for %q", norm)
	}

	found := decoded[0]
	if !strings.Contains(strings.ToLower(found.Name), strings.ToLower(norm)) {
		return domain.Destination{}, fmt.Errorf(
			"lookup destination: %w: found %q instead of %q",
			ErrDestinationMismatch, found.Name, norm,
		)
	}

	loc := found.toObservation()
	return domain.Destination{
		Name:        loc.Name,
		Coordinates: loc.Coordinates,
		Products:    loc.Products,
	}, nil
}
