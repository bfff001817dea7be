package geodesic

import (
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// Intersect computes where the great-circle path from p1 at bearing1Deg
// meets the path from p2 at bearing2Deg, using spherical trigonometry. The
// spherical simplification is deliberate: the callers only resolve where a
// short subdivided leg crosses the antimeridian, where the divergence from
// the ellipsoidal path is negligible. The second return is false when the
// paths do not cross: identical start points, colinear paths, or paths that
// diverge. The result longitude is normalized into (-180,180].
func Intersect(p1 domain.GeoPoint, bearing1Deg float64, p2 domain.GeoPoint, bearing2Deg float64) (domain.GeoPoint, bool) {
	lat1 := toRadians(p1.Lat)
	lon1 := toRadians(p1.Lon)
	lat2 := toRadians(p2.Lat)
	lon2 := toRadians(p2.Lon)
	theta13 := toRadians(bearing1Deg)
	theta23 := toRadians(bearing2Deg)

	deltaLat := lat2 - lat1
	deltaLon := lon2 - lon1

	delta12 := 2 * math.Asin(math.Sqrt(math.Sin(deltaLat/2)*math.Sin(deltaLat/2)+
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)))
	if delta12 == 0 {
		return domain.GeoPoint{}, false
	}

	thetaA := math.Acos(clamp1((math.Sin(lat2) - math.Sin(lat1)*math.Cos(delta12)) /
		(math.Sin(delta12) * math.Cos(lat1))))
	thetaB := math.Acos(clamp1((math.Sin(lat1) - math.Sin(lat2)*math.Cos(delta12)) /
		(math.Sin(delta12) * math.Cos(lat2))))

	var theta12, theta21 float64
	if math.Sin(deltaLon) > 0 {
		theta12 = thetaA
		theta21 = 2*math.Pi - thetaB
	} else {
		theta12 = 2*math.Pi - thetaA
		theta21 = thetaB
	}

	alpha1 := theta13 - theta12 // angle 2-1-3
	alpha2 := theta21 - theta23 // angle 1-2-3

	sinAlpha1 := math.Sin(alpha1)
	sinAlpha2 := math.Sin(alpha2)
	if sinAlpha1 == 0 && sinAlpha2 == 0 {
		// Colinear paths: infinitely many intersections.
		return domain.GeoPoint{}, false
	}
	if sinAlpha1*sinAlpha2 < 0 {
		// The paths head away from each other.
		return domain.GeoPoint{}, false
	}

	cosAlpha1 := math.Cos(alpha1)
	cosAlpha2 := math.Cos(alpha2)
	alpha3 := math.Acos(clamp1(-cosAlpha1*cosAlpha2 + sinAlpha1*sinAlpha2*math.Cos(delta12)))
	delta13 := math.Atan2(math.Sin(delta12)*sinAlpha1*sinAlpha2,
		cosAlpha2+cosAlpha1*math.Cos(alpha3))
	lat3 := math.Asin(clamp1(math.Sin(lat1)*math.Cos(delta13) +
		math.Cos(lat1)*math.Sin(delta13)*math.Cos(theta13)))
	deltaLon13 := math.Atan2(math.Sin(theta13)*math.Sin(delta13)*math.Cos(lat1),
		math.Cos(delta13)-math.Sin(lat1)*math.Sin(lat3))

	return domain.GeoPoint{
		Lat: toDegrees(lat3),
		Lon: wrap180(toDegrees(lon1 + deltaLon13)),
	}, true
}

// clamp1 clamps x into [-1,1] so rounding noise cannot push an asin/acos
// argument out of its domain.
func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
