// Package geodesic computes paths, circles and distances on a reference
// ellipsoid using Vincenty's direct and inverse formulae, and splits the
// resulting geometry wherever it crosses the antimeridian.
package geodesic

import "math"

// Ellipsoid holds the reference ellipsoid constants the solvers operate on.
type Ellipsoid struct {
	A float64 // semi-major axis, meters
	B float64 // semi-minor axis, meters
	F float64 // flattening
}

// WGS84 is the process-wide default reference ellipsoid.
var WGS84 = Ellipsoid{A: 6378137, B: 6356752.3142, F: 1 / 298.257223563}

// GRS80 is provided for callers that need the slightly different geodetic
// reference system used by some national datums.
var GRS80 = Ellipsoid{A: 6378137, B: 6356752.314140356, F: 1 / 298.257222101}

const (
	// convergence is the iteration tolerance shared by both Vincenty loops.
	convergence = 1e-12

	maxDirectIterations  = 1000
	maxInverseIterations = 100
)

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// wrap360 normalizes an angle in degrees into [0,360).
func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// wrap180 normalizes a longitude in degrees into (-180,180].
func wrap180(lon float64) float64 {
	lon = math.Mod(lon, 360)
	switch {
	case lon > 180:
		lon -= 360
	case lon <= -180:
		lon += 360
	}
	return lon
}
