package geodesic_test

import (
	"math"
	"testing"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/geodesic"
)

func TestCircle_ClosedRing(t *testing.T) {
	mp, err := geodesic.WGS84.Circle(paris, 50000, domain.PathOptions{Steps: 24, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(mp.Segments))
	}
	pts := mp.Segments[0].Coordinates
	if len(pts) != 25 {
		t.Fatalf("expected 25 points, got %d", len(pts))
	}

	almostEqual(t, "ring closure lat", pts[0].Lat, pts[24].Lat, 1e-9)
	almostEqual(t, "ring closure lon", pts[0].Lon, pts[24].Lon, 1e-9)

	for i, p := range pts {
		inv, err := geodesic.WGS84.Inverse(paris, p)
		if err != nil {
			t.Fatalf("vertex %d inverse: %v", i, err)
		}
		if math.Abs(inv.Distance-50000) > 0.01 {
			t.Errorf("vertex %d sits %v from the center, want 50000", i, inv.Distance)
		}
	}
}

func TestCircle_NormalizesOptions(t *testing.T) {
	mp, err := geodesic.WGS84.Circle(paris, 1000, domain.PathOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := totalPoints(mp); got != 11 {
		t.Errorf("expected 11 points from the default 10 steps, got %d", got)
	}
}

func TestCircle_SplitsAtAntimeridian(t *testing.T) {
	center := domain.GeoPoint{Lat: 0, Lon: 179.9}
	mp, err := geodesic.WGS84.Circle(center, 100000, domain.PathOptions{Steps: 36, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The ring leaves the eastern hemisphere right after the northmost
	// vertex and returns after the southmost one.
	if len(mp.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(mp.Segments))
	}
	if got := totalPoints(mp); got != 41 {
		t.Errorf("expected 41 points, got %d", got)
	}
	assertNoIntraSegmentJumps(t, mp)

	for i := 0; i < len(mp.Segments)-1; i++ {
		seg := mp.Segments[i].Coordinates
		exit := seg[len(seg)-1]
		entry := mp.Segments[i+1].Coordinates[0]
		if math.Abs(exit.Lon) < 179.99 {
			t.Errorf("segment %d exits at lon %v, expected at the antimeridian", i, exit.Lon)
		}
		if entry.Lat != exit.Lat || entry.Lon != -exit.Lon {
			t.Errorf("segment %d: entry %v is not the mirror of exit %v", i, entry, exit)
		}
	}

	firstSeg := mp.Segments[0].Coordinates
	lastSeg := mp.Segments[len(mp.Segments)-1].Coordinates
	start := firstSeg[0]
	end := lastSeg[len(lastSeg)-1]
	almostEqual(t, "ring closure lat", start.Lat, end.Lat, 1e-9)
	almostEqual(t, "ring closure lon", start.Lon, end.Lon, 1e-9)
}

func TestCircle_UnwrappedKeepsRawLongitudes(t *testing.T) {
	center := domain.GeoPoint{Lat: 0, Lon: 179.9}
	mp, err := geodesic.WGS84.Circle(center, 100000, domain.PathOptions{Steps: 36, Dash: 1, Wrap: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment without wrapping, got %d", len(mp.Segments))
	}
	crossed := false
	for _, p := range mp.Segments[0].Coordinates {
		if p.Lon > 180 {
			crossed = true
		}
	}
	if !crossed {
		t.Error("expected raw longitudes past 180")
	}
}
