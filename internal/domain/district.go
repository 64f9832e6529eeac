package domain

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var ErrInvalidGeometry = errors.New("invalid district geometry")

// Property keys the summary is written back to.
const (
	PropAverageDuration = "average_duration"
	PropMinDuration     = "min_duration"
	PropMaxDuration     = "max_duration"
	PropCountStations   = "count_stations"
)

// Summary of the member stops of a district. Average is computed over the
// fastest decile only; Min, Max and Count cover all members.
type Summary struct {
	WeightedAverage *int
	Min             *int
	Max             *int
	Count           int
}

// District ("Ortsteil") is a named polygonal sub-region. It references, but does not
// own, the stops that fall inside it.
type District struct {
	Name         string
	ParentRegion string
	Alias        string
	AreaHectares float64

	geometry   orb.Geometry
	properties map[string]any
	stations   []*Stop
	summary    *Summary
}

// NewDistrict rejects any geometry other than Polygon or MultiPolygon.
func NewDistrict(
	name string,
	parentRegion string,
	areaHectares float64,
	geometry orb.Geometry,
	properties map[string]any,
) (*District, error) {
	switch geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		gtype := "nil"
		if geometry != nil {
			gtype = geometry.GeoJSONType()
		}
		return nil, fmt.Errorf("new district %q: %w: %s", name, ErrInvalidGeometry, gtype)
	}

	if properties == nil {
		properties = make(map[string]any)
	}

	return &District{
		Name:         name,
		ParentRegion: parentRegion,
		AreaHectares: areaHectares,
		geometry:     geometry,
		properties:   properties,
	}, nil
}

func (d *District) String() string { return fmt.Sprintf("District(%s in %s)", d.Name, d.ParentRegion) }

func (d *District) Geometry() orb.Geometry { return d.geometry }

// Properties is the presentation payload handed to the renderer.
func (d *District) Properties() map[string]any { return d.properties }

// Contains reports whether the stop lies inside the district polygon.
func (d *District) Contains(c Coordinates) bool {
	p := c.LonLat()
	switch g := d.geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	}
	return false
}

func (d *District) AddStation(s *Stop) { d.stations = append(d.stations, s) }

// Stations returns the member stops in insertion order.
func (d *District) Stations() []*Stop { return append([]*Stop(nil), d.stations...) }

// ResetStations clears membership before a new join.
func (d *District) ResetStations() { d.stations = nil }

func (d *District) Summary() *Summary { return d.summary }

// SetSummary replaces the summary and mirrors it into the properties payload.
func (d *District) SetSummary(s Summary) {
	d.summary = &s
	d.properties[PropAverageDuration] = intOrNil(s.WeightedAverage)
	d.properties[PropMinDuration] = intOrNil(s.Min)
	d.properties[PropMaxDuration] = intOrNil(s.Max)
	d.properties[PropCountStations] = s.Count
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
