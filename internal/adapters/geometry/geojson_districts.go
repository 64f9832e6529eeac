package geometry

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strconv"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/platform/obs"

	"github.com/paulmach/orb/geojson"
)

// PropertyFields names the GeoJSON properties that carry district attributes.
type PropertyFields struct {
	Name         string
	ParentRegion string
	Area         string
	Alias        string
}

// Berlin "Ortsteile" as published by the Berlin geoportal.
var DefaultPropertyFields = PropertyFields{
	Name:         "OTEIL",
	ParentRegion: "BEZIRK",
	Area:         "FLAECHE_HA",
	Alias:        "spatial_alias",
}

// GeoJSONDistrictSource loads districts from a GeoJSON FeatureCollection on disk.
type GeoJSONDistrictSource struct {
	Path   string
	Fields PropertyFields
}

func NewGeoJSONDistrictSource(path string) *GeoJSONDistrictSource {
	return &GeoJSONDistrictSource{Path: path, Fields: DefaultPropertyFields}
}

// LoadDistricts re-reads the file so every run gets districts with empty membership.
func (s *GeoJSONDistrictSource) LoadDistricts(ctx context.Context) (_ []*domain.District, err error) {
	defer obs.Time(ctx, "geometry.LoadDistricts")(&err)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load districts: read %q: %w", s.Path, err)
	}

	districts, err := ParseDistricts(data, s.Fields)
	if err != nil {
		return nil, fmt.Errorf("load districts from %q: %w", s.Path, err)
	}
	return districts, nil
}

// ParseDistricts decodes a FeatureCollection into districts, preserving feature order.
// Any feature that is not a Polygon or MultiPolygon fails the whole collection.
func ParseDistricts(data []byte, fields PropertyFields) ([]*domain.District, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse districts: decode feature collection: %w", err)
	}

	districts := make([]*domain.District, 0, len(fc.Features))
	for i, f := range fc.Features {
		props := maps.Clone(map[string]any(f.Properties))
		if props == nil {
			props = make(map[string]any)
		}

		name := f.Properties.MustString(fields.Name, "")
		if name == "" {
			return nil, fmt.Errorf("parse districts: feature #%d: missing %q property", i+1, fields.Name)
		}

		area, err := toFloat(props[fields.Area])
		if err != nil {
			return nil, fmt.Errorf("parse districts: feature #%d (%s): %s: %w", i+1, name, fields.Area, err)
		}

		d, err := domain.NewDistrict(
			name,
			f.Properties.MustString(fields.ParentRegion, ""),
			area,
			f.Geometry,
			props,
		)
		if err != nil {
			return nil, fmt.Errorf("parse districts: feature #%d: %w", i+1, err)
		}
		d.Alias = f.Properties.MustString(fields.Alias, "")

		districts = append(districts, d)
	}

	return districts, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case string:
		if n == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parse area %q: %w", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported area type %T", v)
	}
}
