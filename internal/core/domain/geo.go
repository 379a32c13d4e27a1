package domain

import "math"

// Coordinate is a point in decimal degrees. It is always embedded in a
// Restaurant, never persisted on its own.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return Invalid("latitude must be in [-90, 90]")
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return Invalid("longitude must be in [-180, 180]")
	}
	return nil
}

// BoundingBox is an axis-aligned lat/lon rectangle approximating a circular
// search radius. It is a pre-filter: points inside the box may still lie
// outside the radius.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}
