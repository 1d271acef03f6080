package models

import "github.com/paulmach/orb"

// Coordinates represents a geographical point defined by its longitude and
// latitude in WGS84 decimal degrees, with an optional altitude in meters.
type Coordinates struct {
	Longitude float64  // Longitude of the geographical point.
	Latitude  float64  // Latitude of the geographical point.
	Altitude  *float64 // Altitude above sea level, nil when unknown.
}

// Point returns the coordinate as a (longitude, latitude) geometry point.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
