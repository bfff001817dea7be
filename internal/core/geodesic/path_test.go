package geodesic_test

import (
	"math"
	"testing"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/geodesic"
)

var (
	bilbao = domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	paris  = domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}
)

func totalPoints(mp domain.MultiPolyline) int {
	n := 0
	for _, seg := range mp.Segments {
		n += len(seg.Coordinates)
	}
	return n
}

// assertNoIntraSegmentJumps fails when any segment still straddles the
// antimeridian after splitting.
func assertNoIntraSegmentJumps(t *testing.T, mp domain.MultiPolyline) {
	t.Helper()
	for si, seg := range mp.Segments {
		for i := 0; i < len(seg.Coordinates)-1; i++ {
			d := math.Abs(seg.Coordinates[i+1].Lon - seg.Coordinates[i].Lon)
			if d > 180 {
				t.Errorf("segment %d: longitude jump of %v between points %d and %d", si, d, i, i+1)
			}
		}
	}
}

func TestBuildPath_SingleLeg(t *testing.T) {
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{bilbao, paris}}, domain.PathOptions{Steps: 4, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(mp.Segments))
	}
	pts := mp.Segments[0].Coordinates
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pts))
	}
	if pts[0] != bilbao {
		t.Errorf("first point %v is not the origin", pts[0])
	}
	almostEqual(t, "last lat", pts[4].Lat, paris.Lat, 1e-7)
	almostEqual(t, "last lon", pts[4].Lon, paris.Lon, 1e-7)
}

func TestBuildPath_NormalizesOptions(t *testing.T) {
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{bilbao, paris}}, domain.PathOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(mp.Segments))
	}
	// Zero options fall back to 10 solid steps.
	if got := len(mp.Segments[0].Coordinates); got != 11 {
		t.Errorf("expected 11 points, got %d", got)
	}
}

func TestBuildPath_SkipsDegenerateLegs(t *testing.T) {
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{bilbao, bilbao, paris}}, domain.PathOptions{Steps: 4, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(mp.Segments))
	}
	if got := len(mp.Segments[0].Coordinates); got != 5 {
		t.Errorf("repeated waypoint changed the point count: got %d, want 5", got)
	}
}

func TestBuildPath_MultipleLines(t *testing.T) {
	second := []domain.GeoPoint{{Lat: 35.6895, Lon: 139.6917}, {Lat: 34.6937, Lon: 135.5023}}
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{
		{bilbao, paris},
		{},
		second,
	}, domain.PathOptions{Steps: 4, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 2 {
		t.Fatalf("expected 2 segments (empty line skipped), got %d", len(mp.Segments))
	}
	if mp.Segments[0].Coordinates[0] != bilbao {
		t.Errorf("first segment starts at %v, want %v", mp.Segments[0].Coordinates[0], bilbao)
	}
	if mp.Segments[1].Coordinates[0] != second[0] {
		t.Errorf("second segment starts at %v, want %v", mp.Segments[1].Coordinates[0], second[0])
	}
}

func TestBuildPath_SinglePointLine(t *testing.T) {
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{bilbao}}, domain.PathOptions{Steps: 4, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 || len(mp.Segments[0].Coordinates) != 1 {
		t.Fatalf("expected a single one-point segment, got %+v", mp.Segments)
	}
}

func TestBuildPath_SplitsAtAntimeridian(t *testing.T) {
	a := domain.GeoPoint{Lat: 0, Lon: 170}
	b := domain.GeoPoint{Lat: 0, Lon: -170}
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{a, b}}, domain.PathOptions{Steps: 10, Dash: 1, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(mp.Segments))
	}
	// 11 subdivision points plus the crossing and its mirror.
	if got := totalPoints(mp); got != 13 {
		t.Errorf("expected 13 points, got %d", got)
	}
	assertNoIntraSegmentJumps(t, mp)

	first := mp.Segments[0].Coordinates
	secnd := mp.Segments[1].Coordinates
	exit := first[len(first)-1]
	entry := secnd[0]
	if math.Abs(exit.Lon) < 179.99 {
		t.Errorf("segment exits at lon %v, expected at the antimeridian", exit.Lon)
	}
	if entry.Lat != exit.Lat || entry.Lon != -exit.Lon {
		t.Errorf("entry %v is not the mirror of exit %v", entry, exit)
	}
	almostEqual(t, "crossing lat", exit.Lat, 0, 1e-6)

	if first[0] != a {
		t.Errorf("path starts at %v, want %v", first[0], a)
	}
	last := secnd[len(secnd)-1]
	almostEqual(t, "end lat", last.Lat, b.Lat, 1e-7)
	almostEqual(t, "end lon", last.Lon, b.Lon, 1e-7)
}

func TestBuildPath_UnwrappedStaysContinuous(t *testing.T) {
	a := domain.GeoPoint{Lat: 0, Lon: 170}
	b := domain.GeoPoint{Lat: 0, Lon: -170}
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{a, b}}, domain.PathOptions{Steps: 10, Dash: 1, Wrap: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 1 {
		t.Fatalf("expected 1 segment without wrapping, got %d", len(mp.Segments))
	}
	pts := mp.Segments[0].Coordinates
	if len(pts) != 11 {
		t.Fatalf("expected 11 points, got %d", len(pts))
	}
	// Longitudes keep increasing past 180 instead of jumping.
	almostEqual(t, "end lon", pts[10].Lon, 190, 1e-6)
}

func TestBuildPath_Dashed(t *testing.T) {
	mp, err := geodesic.WGS84.BuildPath([][]domain.GeoPoint{{bilbao, paris}}, domain.PathOptions{Steps: 5, Dash: 0.5, Wrap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.Segments) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(mp.Segments))
	}
	if got := totalPoints(mp); got != 11 {
		t.Errorf("expected 11 points, got %d", got)
	}

	inv, err := geodesic.WGS84.Inverse(bilbao, paris)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	// With dash 0.5 every drawn dash covers half a sub-step.
	wantDash := inv.Distance / 10
	for i := 0; i < 5; i++ {
		seg := mp.Segments[i].Coordinates
		if len(seg) != 2 {
			t.Fatalf("segment %d: expected 2 points, got %d", i, len(seg))
		}
		dash, err := geodesic.WGS84.Inverse(seg[0], seg[1])
		if err != nil {
			t.Fatalf("segment %d inverse: %v", i, err)
		}
		if math.Abs(dash.Distance-wantDash) > 0.02 {
			t.Errorf("segment %d: dash length %v, want %v", i, dash.Distance, wantDash)
		}
	}

	tail := mp.Segments[5].Coordinates
	if len(tail) != 1 {
		t.Fatalf("expected trailing 1-point segment, got %d points", len(tail))
	}
	almostEqual(t, "tail lat", tail[0].Lat, paris.Lat, 1e-7)
	almostEqual(t, "tail lon", tail[0].Lon, paris.Lon, 1e-7)
}
