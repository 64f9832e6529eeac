package dto

import (
	"maps"
	"transit-reachability-service/internal/domain"
	"transit-reachability-service/internal/render"

	"github.com/paulmach/orb/geojson"
)

// DestinationCollection renders destinations as points. The map center is carried
// as a foreign member so a client can frame the map without recomputing it.
func DestinationCollection(destinations []domain.Destination) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, d := range destinations {
		f := geojson.NewFeature(d.Coordinates.LonLat())
		f.Properties = geojson.Properties{
			"name":     d.Name,
			"products": d.Products.Abbreviations(),
		}
		fc.Append(f)
	}

	if center, ok := render.MapCenter(destinations); ok {
		fc.ExtraMembers = geojson.Properties{"center": center.CoordsToList()}
	}
	return fc
}

func StopCollection(markers []render.StopMarker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		f := geojson.NewFeature(m.Coordinates.LonLat())
		f.Properties = geojson.Properties{
			"name":              m.Name,
			"color":             m.Color,
			"radius":            m.RadiusMeters,
			"popup":             m.PopupText,
			"weighted_duration": m.WeightedDuration,
			"durations":         m.Durations,
		}
		fc.Append(f)
	}
	return fc
}

func DistrictCollection(layers []render.DistrictLayer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range layers {
		fc.Append(DistrictFeature(l))
	}
	return fc
}

// DistrictFeature merges the source properties with the fill style and tooltip.
// The layer's own property map is left untouched.
func DistrictFeature(l render.DistrictLayer) *geojson.Feature {
	f := geojson.NewFeature(l.Geometry)

	props := geojson.Properties(maps.Clone(l.Properties))
	if props == nil {
		props = geojson.Properties{}
	}
	props["fill_color"] = l.FillColor
	props["fill_opacity"] = l.FillOpacity
	props["tooltip"] = map[string]any{
		"district":         l.Tooltip.District,
		"parent_region":    l.Tooltip.ParentRegion,
		"weighted_average": l.Tooltip.WeightedAverage,
		"min":              l.Tooltip.Min,
		"max":              l.Tooltip.Max,
		"count":            l.Tooltip.Count,
	}
	f.Properties = props
	return f
}
