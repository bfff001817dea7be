package polyline_test

import (
	"math"
	"testing"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/pkg/polyline"
)

// The worked example from the algorithm's documentation.
var referencePoints = []domain.GeoPoint{
	{Lat: 38.5, Lon: -120.2},
	{Lat: 40.7, Lon: -120.95},
	{Lat: 43.252, Lon: -126.453},
}

const referenceEncoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestEncode_Reference(t *testing.T) {
	if got := polyline.Encode(referencePoints); got != referenceEncoded {
		t.Errorf("got %q, want %q", got, referenceEncoded)
	}
}

func TestDecode_Reference(t *testing.T) {
	points := polyline.Decode(referenceEncoded)
	if len(points) != len(referencePoints) {
		t.Fatalf("got %d points, want %d", len(points), len(referencePoints))
	}
	for i, p := range points {
		if math.Abs(p.Lat-referencePoints[i].Lat) > 1e-9 || math.Abs(p.Lon-referencePoints[i].Lon) > 1e-9 {
			t.Errorf("point %d: got %v, want %v", i, p, referencePoints[i])
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := polyline.Encode(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := polyline.Decode(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestEncode_RoundTripResolution(t *testing.T) {
	points := []domain.GeoPoint{
		{Lat: 43.263012, Lon: -2.934985},
		{Lat: 43.264155, Lon: -2.935448},
		{Lat: -89.999990, Lon: 179.999990},
	}
	decoded := polyline.Decode(polyline.Encode(points))
	if len(decoded) != len(points) {
		t.Fatalf("got %d points, want %d", len(decoded), len(points))
	}
	// The codec stores 5 decimal places, so half of 1e-5 is the worst case.
	for i, p := range decoded {
		if math.Abs(p.Lat-points[i].Lat) > 5e-6+1e-12 || math.Abs(p.Lon-points[i].Lon) > 5e-6+1e-12 {
			t.Errorf("point %d drifted: got %v, want %v", i, p, points[i])
		}
	}
}

func TestEncodeSegments_PreservesBoundaries(t *testing.T) {
	mp := domain.MultiPolyline{Segments: []domain.GeoLineString{
		{Coordinates: []domain.GeoPoint{{Lat: 0, Lon: 179.9}, {Lat: 0, Lon: 179.999}}},
		{Coordinates: []domain.GeoPoint{{Lat: 0, Lon: -179.999}, {Lat: 0, Lon: -179.9}}},
	}}

	encoded := polyline.EncodeSegments(mp)
	if len(encoded) != 2 {
		t.Fatalf("got %d encoded segments, want 2", len(encoded))
	}

	back := polyline.DecodeSegments(encoded)
	if len(back.Segments) != 2 {
		t.Fatalf("got %d decoded segments, want 2", len(back.Segments))
	}
	for si, seg := range back.Segments {
		want := mp.Segments[si].Coordinates
		if len(seg.Coordinates) != len(want) {
			t.Fatalf("segment %d: got %d points, want %d", si, len(seg.Coordinates), len(want))
		}
		for i, p := range seg.Coordinates {
			if math.Abs(p.Lat-want[i].Lat) > 5e-6 || math.Abs(p.Lon-want[i].Lon) > 5e-6 {
				t.Errorf("segment %d point %d: got %v, want %v", si, i, p, want[i])
			}
		}
	}
}

func TestEncodeSegments_Empty(t *testing.T) {
	if got := polyline.EncodeSegments(domain.MultiPolyline{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := polyline.DecodeSegments(nil); len(got.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(got.Segments))
	}
}
