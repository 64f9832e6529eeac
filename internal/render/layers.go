// Package render prepares the payloads a map renderer draws: one colored circle
// per stop and one filled polygon per district.
package render

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/services"

	"github.com/paulmach/orb"
)

// DistrictFillOpacity is applied to every district polygon.
const DistrictFillOpacity = 0.5

type StopMarker struct {
	Name             string
	Coordinates      domain.Coordinates
	Color            string
	RadiusMeters     int
	PopupText        string
	WeightedDuration int
	Durations        map[string]int
}

// Tooltip fields shown when hovering a district.
type DistrictTooltip struct {
	District        string
	ParentRegion    string
	WeightedAverage *int
	Min             *int
	Max             *int
	Count           int
}

type DistrictLayer struct {
	Geometry    orb.Geometry
	FillColor   string
	FillOpacity float64
	Tooltip     DistrictTooltip
	Properties  map[string]any
}

// StopMarkers builds one marker per stop, slowest first so that faster stops are
// drawn on top.
func StopMarkers(stops []*domain.Stop, colors *services.ColorMapper, radiusMeters int) []StopMarker {
	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, func(a, b *domain.Stop) int {
		if c := cmp.Compare(b.WeightedDuration(), a.WeightedDuration()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name(), b.Name())
	})

	markers := make([]StopMarker, 0, len(sorted))
	for _, s := range sorted {
		w := s.WeightedDuration()
		markers = append(markers, StopMarker{
			Name:             s.Name(),
			Coordinates:      s.Coordinates(),
			Color:            colors.ColorFor(w),
			RadiusMeters:     radiusMeters,
			PopupText:        PopupText(s),
			WeightedDuration: w,
			Durations:        s.Durations(),
		})
	}
	return markers
}

// PopupText renders the stop name, its modes and every destination duration as
// the pseudo-HTML used by the map popups.
func PopupText(s *domain.Stop) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s<br>%s<br><br>", s.Name(), strings.Join(s.Products().Abbreviations(), ","))
	for _, name := range s.DestinationNames() {
		d, _ := s.Duration(name)
		fmt.Fprintf(&b, "%s: %d min<br>", name, d)
	}
	fmt.Fprintf(&b, "Average: %d min", s.WeightedDuration())
	return b.String()
}

// DistrictLayers converts summarized districts into fill layers. Districts without
// an average are drawn in services.NoDataColor.
func DistrictLayers(districts []*domain.District, colors *services.ColorMapper) []DistrictLayer {
	layers := make([]DistrictLayer, 0, len(districts))
	for _, d := range districts {
		summary := domain.Summary{}
		if s := d.Summary(); s != nil {
			summary = *s
		}

		layers = append(layers, DistrictLayer{
			Geometry:    d.Geometry(),
			FillColor:   colors.ColorForOptional(summary.WeightedAverage),
			FillOpacity: DistrictFillOpacity,
			Tooltip: DistrictTooltip{
				District:        d.Name,
				ParentRegion:    d.ParentRegion,
				WeightedAverage: summary.WeightedAverage,
				Min:             summary.Min,
				Max:             summary.Max,
				Count:           summary.Count,
			},
			Properties: d.Properties(),
		})
	}
	return layers
}

// MapCenter is the arithmetic mean of the destination coordinates.
func MapCenter(destinations []domain.Destination) (domain.Coordinates, bool) {
	if len(destinations) == 0 {
		return domain.Coordinates{}, false
	}
	var lat, lon float64
	for _, d := range destinations {
		lat += d.Coordinates.Lat
		lon += d.Coordinates.Lon
	}
	n := float64(len(destinations))
	return domain.Coordinates{Lat: lat / n, Lon: lon / n}, true
}
