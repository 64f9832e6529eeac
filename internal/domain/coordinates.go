package domain

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Immutable geographic coordinates as reported by the transit API (latitude first).
type Coordinates struct {
	Lat float64
	Lon float64
}

// LonLat reorders the coordinates into the (x=longitude, y=latitude) axis order
// used by GeoJSON polygons. Containment tests must go through this.
func (c Coordinates) LonLat() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Return coordinates as [lat, lon] for map center and marker locations.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lon} }

func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: lat=%f lon=%f", ErrInvalidCoordinates, c.Lat, c.Lon)
	}
	return nil
}
