package geojsonadapter_test

import (
	"strings"
	"testing"
	"time"

	geojsonadapter "github.com/samirrijal/arcline/internal/adapters/geojson"
	"github.com/samirrijal/arcline/internal/core/domain"
)

const lineFeature = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Bilbao - Paris", "color": "#e63946", "steps": 24, "wrap": false},
			"geometry": {
				"type": "LineString",
				"coordinates": [[-2.935, 43.263], [2.3522, 48.8566]]
			}
		}
	]
}`

func TestParseRoutes_LineString(t *testing.T) {
	routes, skipped, err := geojsonadapter.ParseRoutes([]byte(lineFeature))
	if err != nil {
		t.Fatalf("ParseRoutes: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skips, got %v", skipped)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}

	rt := routes[0]
	if rt.Name != "Bilbao - Paris" {
		t.Errorf("name = %q", rt.Name)
	}
	if rt.Color != "#e63946" {
		t.Errorf("color = %q", rt.Color)
	}
	if len(rt.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(rt.Waypoints))
	}
	// GeoJSON positions are [lon, lat]
	if rt.Waypoints[0].Lat != 43.263 || rt.Waypoints[0].Lon != -2.935 {
		t.Errorf("waypoint 0 = %+v", rt.Waypoints[0])
	}
	if rt.Options.Steps != 24 {
		t.Errorf("steps = %d", rt.Options.Steps)
	}
	if rt.Options.Dash != 1 {
		t.Errorf("dash should normalize to 1, got %g", rt.Options.Dash)
	}
	if rt.Options.Wrap {
		t.Error("wrap should be false")
	}
}

func TestParseRoutes_MultiLineString(t *testing.T) {
	data := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Ferry"},
				"geometry": {
					"type": "MultiLineString",
					"coordinates": [
						[[0, 0], [1, 1]],
						[[2, 2], [3, 3], [4, 4]]
					]
				}
			}
		]
	}`

	routes, skipped, err := geojsonadapter.ParseRoutes([]byte(data))
	if err != nil {
		t.Fatalf("ParseRoutes: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skips, got %v", skipped)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].Name != "Ferry (part 1)" || routes[1].Name != "Ferry (part 2)" {
		t.Errorf("part names = %q, %q", routes[0].Name, routes[1].Name)
	}
	if len(routes[1].Waypoints) != 3 {
		t.Errorf("part 2 waypoints = %d", len(routes[1].Waypoints))
	}
}

func TestParseRoutes_SkipsUnusableFeatures(t *testing.T) {
	data := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Just a point"},
				"geometry": {"type": "Point", "coordinates": [1, 2]}
			},
			{
				"type": "Feature",
				"properties": {"name": "Too short"},
				"geometry": {"type": "LineString", "coordinates": [[1, 2]]}
			},
			{
				"type": "Feature",
				"properties": {},
				"geometry": {
					"type": "LineString",
					"coordinates": [[0, 0], [1, 1]]
				}
			}
		]
	}`

	routes, skipped, err := geojsonadapter.ParseRoutes([]byte(data))
	if err != nil {
		t.Fatalf("ParseRoutes: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].Name != "feature 3" {
		t.Errorf("fallback name = %q", routes[0].Name)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skips, got %v", skipped)
	}
	if !strings.Contains(skipped[0], "Just a point") || !strings.Contains(skipped[0], "Point") {
		t.Errorf("skip 0 = %q", skipped[0])
	}
	if !strings.Contains(skipped[1], "Too short") {
		t.Errorf("skip 1 = %q", skipped[1])
	}
}

func TestParseRoutes_BadJSON(t *testing.T) {
	if _, _, err := geojsonadapter.ParseRoutes([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractLines_BareGeometry(t *testing.T) {
	data := `{"type": "LineString", "coordinates": [[-2.935, 43.263], [2.3522, 48.8566]]}`

	lines, skipped, err := geojsonadapter.ExtractLines([]byte(data))
	if err != nil {
		t.Fatalf("ExtractLines: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v", skipped)
	}
	if len(lines) != 1 || len(lines[0]) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0][0].Lat != 43.263 || lines[0][0].Lon != -2.935 {
		t.Errorf("first point = %+v", lines[0][0])
	}
}

func TestExtractLines_Feature(t *testing.T) {
	lines, skipped, err := geojsonadapter.ExtractLines([]byte(lineFeature))
	if err != nil {
		t.Fatalf("ExtractLines: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v", skipped)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestExtractLines_FeatureCollectionMixed(t *testing.T) {
	data := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"name": "Pin"},
			 "geometry": {"type": "Point", "coordinates": [0, 0]}},
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "MultiLineString", "coordinates": [
				[[0, 0], [1, 1]],
				[[2, 2], [3, 3], [4, 4]]
			 ]}}
		]
	}`

	lines, skipped, err := geojsonadapter.ExtractLines([]byte(data))
	if err != nil {
		t.Fatalf("ExtractLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(lines[1]) != 3 {
		t.Errorf("second line has %d points", len(lines[1]))
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "Pin") {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestExtractLines_BadJSON(t *testing.T) {
	if _, _, err := geojsonadapter.ExtractLines([]byte("[1, 2]")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGeometryFeatureCollection(t *testing.T) {
	route := &domain.Route{ID: "r-1", Name: "Bilbao - Paris", Color: "#e63946"}
	geom := &domain.RouteGeometry{
		RouteID: "r-1",
		Geometry: domain.MultiPolyline{Segments: []domain.GeoLineString{
			{Coordinates: []domain.GeoPoint{{Lat: 43.263, Lon: -2.935}, {Lat: 48.8566, Lon: 2.3522}}},
		}},
		Stats:   domain.GeometryStats{DistanceMeters: 1000, PointCount: 2, SegmentCount: 1},
		BuiltAt: time.Now(),
	}

	fc := geojsonadapter.GeometryFeatureCollection(route, geom)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if !f.Geometry.IsMultiLineString() {
		t.Fatalf("geometry type = %s", f.Geometry.Type)
	}
	if got := f.Geometry.MultiLineString[0][0]; got[0] != -2.935 || got[1] != 43.263 {
		t.Errorf("first position = %v, want [lon lat]", got)
	}
	if name := f.PropertyMustString("name", ""); name != "Bilbao - Paris" {
		t.Errorf("name property = %q", name)
	}
	if d := f.PropertyMustFloat64("distance_m", 0); d != 1000 {
		t.Errorf("distance_m property = %g", d)
	}
}
