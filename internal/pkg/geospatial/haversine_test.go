package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/pkg/geospatial"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Bilbao to Paris, roughly 743 km.
	bilbao := domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	paris := domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}

	d := geospatial.Haversine(bilbao, paris)
	if d < 730000 || d > 760000 {
		t.Errorf("Bilbao-Paris distance out of range: %v", d)
	}

	if rev := geospatial.Haversine(paris, bilbao); math.Abs(rev-d) > 1e-6 {
		t.Errorf("asymmetric distance: %v vs %v", d, rev)
	}
}

func TestRoughLength(t *testing.T) {
	points := []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 2},
	}
	// Two equatorial degrees, about 111.19 km each on the mean sphere.
	got := geospatial.RoughLength(points)
	want := 2 * 111195.0
	if math.Abs(got-want) > 100 {
		t.Errorf("rough length: got %v, want about %v", got, want)
	}

	if l := geospatial.RoughLength(points[:1]); l != 0 {
		t.Errorf("single point length: got %v, want 0", l)
	}
	if l := geospatial.RoughLength(nil); l != 0 {
		t.Errorf("nil length: got %v, want 0", l)
	}
}

func TestNearAntipodal(t *testing.T) {
	cases := []struct {
		a, b domain.GeoPoint
		want bool
	}{
		{domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 180}, true},
		{domain.GeoPoint{Lat: 30, Lon: 10}, domain.GeoPoint{Lat: -30, Lon: -170}, true},
		{domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 0, Lon: 179}, false},
		{domain.GeoPoint{Lat: 43.263, Lon: -2.935}, domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}, false},
	}
	for _, tc := range cases {
		if got := geospatial.NearAntipodal(tc.a, tc.b); got != tc.want {
			t.Errorf("NearAntipodal(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
