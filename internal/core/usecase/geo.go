package usecase

import (
	"math"
	"sort"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

const (
	earthRadiusKM = 6371.0

	// Planar approximation constants: one degree of latitude is ~111 km
	// everywhere; one degree of longitude is ~111.320 km at the equator and
	// shrinks with cos(latitude).
	kmPerLatDegree = 111.0
	kmPerLonDegree = 111.320
)

// BoundingBox computes a lat/lon rectangle around center covering radiusKM in
// every direction. The box over-estimates near the poles (cos(lat) → 0 widens
// the longitude delta); at |lat| == 90 the delta is clamped to 180 instead of
// dividing by zero.
func BoundingBox(center domain.Coordinate, radiusKM float64) (domain.BoundingBox, error) {
	if err := center.Validate(); err != nil {
		return domain.BoundingBox{}, err
	}
	if math.IsNaN(radiusKM) || math.IsInf(radiusKM, 0) || radiusKM <= 0 {
		return domain.BoundingBox{}, domain.Invalid("radius_km must be a positive finite number")
	}

	latDelta := radiusKM / kmPerLatDegree

	lonDelta := 180.0
	if cosLat := math.Cos(center.Latitude * math.Pi / 180); cosLat > 0 {
		lonDelta = radiusKM / (kmPerLonDegree * cosLat)
		if lonDelta > 180 {
			lonDelta = 180
		}
	}

	return domain.BoundingBox{
		MinLat: center.Latitude - latDelta,
		MaxLat: center.Latitude + latDelta,
		MinLon: center.Longitude - lonDelta,
		MaxLon: center.Longitude + lonDelta,
	}, nil
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b domain.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Floating-point error can push h a hair past 1, which would NaN the asin.
	if h > 1 {
		h = 1
	}
	if h < 0 {
		h = 0
	}
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// RankByDistance sorts restaurants ascending by great-circle distance from
// origin. The sort is stable: equal distances keep their input order.
func RankByDistance(origin domain.Coordinate, candidates []domain.Restaurant) []domain.Restaurant {
	ranked := make([]domain.Restaurant, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Haversine(origin, ranked[i].Location) < Haversine(origin, ranked[j].Location)
	})
	return ranked
}
