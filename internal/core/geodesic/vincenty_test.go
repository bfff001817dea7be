package geodesic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/geodesic"
)

// Land's End to John o' Groats, the classic UK survey pair. The expected
// figures follow Vincenty (1975) on WGS-84 and match the published solution
// to the millimeter.
var (
	landsEnd    = domain.GeoPoint{Lat: 50.06632, Lon: -5.71472}
	johnOGroats = domain.GeoPoint{Lat: 58.64402, Lon: -3.07009}
)

// --- Helpers ---

func almostEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v (tolerance %v)", name, got, want, tol)
	}
}

// angleDelta returns the minimal separation between two bearings, so 359.9999
// and 0.0001 compare as close rather than 359.9998 apart.
func angleDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// --- Tests ---

func TestInverse_KnownPair(t *testing.T) {
	inv, err := geodesic.WGS84.Inverse(landsEnd, johnOGroats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Coincident {
		t.Fatal("pair reported as coincident")
	}
	almostEqual(t, "distance", inv.Distance, 969954.166, 0.001)
	almostEqual(t, "initial bearing", inv.InitialBearing, 9.1419, 1e-4)
	almostEqual(t, "final bearing", inv.FinalBearing, 11.2972, 1e-4)
}

func TestDirect_KnownDestination(t *testing.T) {
	dir, err := geodesic.WGS84.Direct(landsEnd, 9.1419, 969954.166, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, "lat", dir.Point.Lat, johnOGroats.Lat, 1e-4)
	almostEqual(t, "lon", dir.Point.Lon, johnOGroats.Lon, 1e-4)
	almostEqual(t, "final bearing", dir.FinalBearing, 11.2972, 2e-4)
}

func TestDirect_InverseRoundTrip(t *testing.T) {
	origins := []domain.GeoPoint{
		{Lat: 50.06632, Lon: -5.71472},
		{Lat: -35.3, Lon: 149.1},
		{Lat: 35.6895, Lon: 139.6917},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 40.7128, Lon: -74.006},
		{Lat: 64.1466, Lon: -21.9426},
	}
	bearings := []float64{0, 45, 90, 135, 225, 315}
	distances := []float64{1000, 50000, 500000, 5000000}

	for _, origin := range origins {
		for _, bearing := range bearings {
			for _, d := range distances {
				dir, err := geodesic.WGS84.Direct(origin, bearing, d, true)
				if err != nil {
					t.Fatalf("direct from %v bearing %v distance %v: %v", origin, bearing, d, err)
				}
				inv, err := geodesic.WGS84.Inverse(origin, dir.Point)
				if err != nil {
					t.Fatalf("inverse from %v to %v: %v", origin, dir.Point, err)
				}
				if math.Abs(inv.Distance-d) > 0.002 {
					t.Errorf("origin %v bearing %v: distance came back %v, want %v", origin, bearing, inv.Distance, d)
				}
				if angleDelta(inv.InitialBearing, bearing) > 1e-6 {
					t.Errorf("origin %v distance %v: bearing came back %v, want %v", origin, d, inv.InitialBearing, bearing)
				}
			}
		}
	}
}

func TestInverse_Symmetry(t *testing.T) {
	pairs := [][2]domain.GeoPoint{
		{landsEnd, johnOGroats},
		{{Lat: 35.6895, Lon: 139.6917}, {Lat: -33.8688, Lon: 151.2093}},
		{{Lat: 40.7128, Lon: -74.006}, {Lat: 51.5074, Lon: -0.1278}},
		{{Lat: 64.1466, Lon: -21.9426}, {Lat: -35.3, Lon: 149.1}},
	}

	for _, pair := range pairs {
		fwd, err := geodesic.WGS84.Inverse(pair[0], pair[1])
		if err != nil {
			t.Fatalf("forward %v -> %v: %v", pair[0], pair[1], err)
		}
		rev, err := geodesic.WGS84.Inverse(pair[1], pair[0])
		if err != nil {
			t.Fatalf("reverse %v -> %v: %v", pair[1], pair[0], err)
		}
		if math.Abs(fwd.Distance-rev.Distance) > 0.001 {
			t.Errorf("pair %v: forward distance %v, reverse distance %v", pair, fwd.Distance, rev.Distance)
		}
		if d := angleDelta(fwd.FinalBearing+180, rev.InitialBearing); d > 1e-6 {
			t.Errorf("pair %v: reversed final bearing %v does not match reverse initial bearing %v", pair, fwd.FinalBearing, rev.InitialBearing)
		}
		if d := angleDelta(fwd.InitialBearing+180, rev.FinalBearing); d > 1e-6 {
			t.Errorf("pair %v: reversed initial bearing %v does not match reverse final bearing %v", pair, fwd.InitialBearing, rev.FinalBearing)
		}
	}
}

func TestInverse_CoincidentPoints(t *testing.T) {
	for _, p := range []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 43.263, Lon: -2.935},
		{Lat: -89.9, Lon: 179.9},
	} {
		inv, err := geodesic.WGS84.Inverse(p, p)
		if err != nil {
			t.Fatalf("coincident %v: unexpected error: %v", p, err)
		}
		if !inv.Coincident {
			t.Errorf("coincident %v: flag not set", p)
		}
		if inv.Distance != 0 || inv.InitialBearing != 0 || inv.FinalBearing != 0 {
			t.Errorf("coincident %v: expected zero result, got %+v", p, inv)
		}
	}
}

func TestDirect_WrapControlsLongitude(t *testing.T) {
	origin := domain.GeoPoint{Lat: 0, Lon: 179.5}

	wrapped, err := geodesic.WGS84.Direct(origin, 90, 200000, true)
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}
	raw, err := geodesic.WGS84.Direct(origin, 90, 200000, false)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}

	if wrapped.Point.Lon >= 0 || wrapped.Point.Lon <= -180 {
		t.Errorf("wrapped longitude %v not in (-180,0)", wrapped.Point.Lon)
	}
	if raw.Point.Lon <= 180 {
		t.Errorf("raw longitude %v should run past the antimeridian", raw.Point.Lon)
	}
	almostEqual(t, "raw vs wrapped", raw.Point.Lon-360, wrapped.Point.Lon, 1e-9)
	almostEqual(t, "latitude agreement", raw.Point.Lat, wrapped.Point.Lat, 1e-12)
}

func TestInverse_NearAntipodalFails(t *testing.T) {
	_, err := geodesic.WGS84.Inverse(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 180})
	if !errors.Is(err, geodesic.ErrNonConvergent) {
		t.Fatalf("expected ErrNonConvergent, got %v", err)
	}
}

func TestInverse_EquatorialArc(t *testing.T) {
	// Along the equator the geodesic distance is exactly the semi-major
	// axis times the longitude difference in radians.
	inv, err := geodesic.WGS84.Inverse(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 179})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geodesic.WGS84.A * (179 * math.Pi / 180)
	almostEqual(t, "distance", inv.Distance, want, 0.01)
	almostEqual(t, "initial bearing", inv.InitialBearing, 90, 1e-9)
	almostEqual(t, "final bearing", inv.FinalBearing, 90, 1e-9)
}
