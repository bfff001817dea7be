// Package geospatial provides cheap spherical estimates. The geodesic core
// computes exact ellipsoidal figures; these helpers exist for diagnostics
// where a fraction of a percent of error does not matter and an iterative
// solve is not worth running.
package geospatial

import (
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points
// on the mean-radius sphere.
func Haversine(a, b domain.GeoPoint) float64 {
	return earthRadiusMeters * centralAngle(a, b)
}

// RoughLength sums the spherical leg distances of a waypoint sequence, in
// meters. It underestimates the ellipsoidal length by up to ~0.5%.
func RoughLength(points []domain.GeoPoint) float64 {
	var total float64
	for i := 0; i < len(points)-1; i++ {
		total += Haversine(points[i], points[i+1])
	}
	return total
}

// NearAntipodal reports whether two points are within half a degree of
// being diametrically opposite. The inverse geodesic solver converges
// slowly or not at all in that region, so callers use this to flag inputs
// before solving.
func NearAntipodal(a, b domain.GeoPoint) bool {
	return centralAngle(a, b) > math.Pi*179.5/180
}

// centralAngle returns the angular separation in radians via the haversine
// formula, which stays accurate for small separations where the spherical
// law of cosines loses precision.
func centralAngle(a, b domain.GeoPoint) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
