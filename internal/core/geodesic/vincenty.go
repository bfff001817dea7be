package geodesic

import (
	"errors"
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// ErrNonConvergent is returned when a Vincenty iteration exceeds its cap,
// which happens for nearly antipodal inputs.
var ErrNonConvergent = errors.New("geodesic: vincenty iteration did not converge")

// DirectResult is the solution of the direct geodesic problem.
type DirectResult struct {
	Point        domain.GeoPoint `json:"point"`
	FinalBearing float64         `json:"final_bearing"`
}

// InverseResult is the solution of the inverse geodesic problem. Distance is
// rounded to millimeters and bearings are normalized into [0,360).
// Coincident is set when both input points are the same point; distance and
// bearings are zero in that case and must not be read as a computed result.
type InverseResult struct {
	Distance       float64 `json:"distance_m"`
	InitialBearing float64 `json:"initial_bearing"`
	FinalBearing   float64 `json:"final_bearing"`
	Coincident     bool    `json:"coincident,omitempty"`
}

// Direct solves the direct geodesic problem: starting at origin with the
// given initial bearing, travel distanceMeters along the geodesic. With wrap
// the destination longitude is normalized into (-180,180]; without it the
// raw sum origin.Lon + L is returned, letting callers track longitudes that
// revolve past the antimeridian.
func (e Ellipsoid) Direct(origin domain.GeoPoint, bearingDeg, distanceMeters float64, wrap bool) (DirectResult, error) {
	a, b, f := e.A, e.B, e.F
	s := distanceMeters

	alpha1 := toRadians(bearingDeg)
	sinAlpha1 := math.Sin(alpha1)
	cosAlpha1 := math.Cos(alpha1)

	tanU1 := (1 - f) * math.Tan(toRadians(origin.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := s / (b * bigA)
	sigmaP := math.Inf(1)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; math.Abs(sigma-sigmaP) > convergence; i++ {
		if i >= maxDirectIterations {
			return DirectResult{}, ErrNonConvergent
		}
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaP = sigma
		sigma = s/(b*bigA) + deltaSigma
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	l := lambda - (1-c)*f*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 := origin.Lon + toDegrees(l)
	if wrap {
		lon2 = wrap180(lon2)
	}

	return DirectResult{
		Point:        domain.GeoPoint{Lat: toDegrees(lat2), Lon: lon2},
		FinalBearing: wrap360(toDegrees(math.Atan2(sinAlpha, -tmp))),
	}, nil
}

// Inverse solves the inverse geodesic problem between p1 and p2. A nearly
// antipodal pair that fails to converge is retried once with p2 shifted
// 0.01 degrees west; a second failure returns ErrNonConvergent.
func (e Ellipsoid) Inverse(p1, p2 domain.GeoPoint) (InverseResult, error) {
	res, err := e.inverse(p1, p2)
	if errors.Is(err, ErrNonConvergent) {
		return e.inverse(p1, domain.GeoPoint{Lat: p2.Lat, Lon: p2.Lon - 0.01})
	}
	return res, err
}

func (e Ellipsoid) inverse(p1, p2 domain.GeoPoint) (InverseResult, error) {
	a, b, f := e.A, e.B, e.F

	bigL := toRadians(p2.Lon - p1.Lon)
	tanU1 := (1 - f) * math.Tan(toRadians(p1.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - f) * math.Tan(toRadians(p2.Lat))
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	lambda := bigL
	lambdaP := math.Inf(1)
	var sinLambda, cosLambda float64
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	for i := 0; math.Abs(lambda-lambdaP) > convergence; i++ {
		if i >= maxInverseIterations {
			return InverseResult{}, ErrNonConvergent
		}
		sinLambda = math.Sin(lambda)
		cosLambda = math.Cos(lambda)
		sinSigma = math.Sqrt((cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return InverseResult{Coincident: true}, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			cos2SigmaM = 0 // equatorial geodesic
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}
		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaP = lambda
		lambda = bigL + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	distance := b * bigA * (sigma - deltaSigma)
	distance = math.Round(distance*1000) / 1000 // millimeter precision

	return InverseResult{
		Distance:       distance,
		InitialBearing: wrap360(toDegrees(math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda))),
		FinalBearing:   wrap360(toDegrees(math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda))),
	}, nil
}
