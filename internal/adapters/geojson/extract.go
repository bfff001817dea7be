package geojsonadapter

import (
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// ParseRoutes converts a GeoJSON FeatureCollection into routes. LineString
// features become one route each, MultiLineString features one route per
// part. Features without a usable line geometry are skipped and described in
// the returned diagnostics.
func ParseRoutes(data []byte) ([]domain.Route, []string, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse feature collection: %w", err)
	}

	var routes []domain.Route
	var skipped []string
	for i, f := range fc.Features {
		name := featureName(f, i)
		if f.Geometry == nil {
			skipped = append(skipped, name+": no geometry")
			continue
		}
		switch {
		case f.Geometry.IsLineString():
			pts, err := toPoints(f.Geometry.LineString)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			routes = append(routes, buildRoute(name, f, pts))
		case f.Geometry.IsMultiLineString():
			parts := f.Geometry.MultiLineString
			for j, part := range parts {
				pts, err := toPoints(part)
				if err != nil {
					skipped = append(skipped, fmt.Sprintf("%s part %d: %v", name, j+1, err))
					continue
				}
				partName := name
				if len(parts) > 1 {
					partName = fmt.Sprintf("%s (part %d)", name, j+1)
				}
				routes = append(routes, buildRoute(partName, f, pts))
			}
		default:
			skipped = append(skipped, fmt.Sprintf("%s: unsupported geometry %s", name, f.Geometry.Type))
		}
	}
	return routes, skipped, nil
}

// ExtractLines pulls the line geometries out of a GeoJSON document. The
// document may be a bare geometry, a Feature or a FeatureCollection. Each
// LineString yields one line, MultiLineStrings one line per part. Geometries
// of other kinds are skipped and described in the returned diagnostics.
func ExtractLines(data []byte) ([][]domain.GeoPoint, []string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("parse geojson: %w", err)
	}

	var geoms []*geojson.Geometry
	var names []string
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parse feature collection: %w", err)
		}
		for i, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
			names = append(names, featureName(f, i))
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parse feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
		names = append(names, featureName(f, 0))
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parse geometry: %w", err)
		}
		geoms = append(geoms, g)
		names = append(names, "geometry")
	}

	var lines [][]domain.GeoPoint
	var skipped []string
	for i, g := range geoms {
		name := names[i]
		if g == nil {
			skipped = append(skipped, name+": no geometry")
			continue
		}
		switch {
		case g.IsLineString():
			pts, err := toPoints(g.LineString)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			lines = append(lines, pts)
		case g.IsMultiLineString():
			for j, part := range g.MultiLineString {
				pts, err := toPoints(part)
				if err != nil {
					skipped = append(skipped, fmt.Sprintf("%s part %d: %v", name, j+1, err))
					continue
				}
				lines = append(lines, pts)
			}
		default:
			skipped = append(skipped, fmt.Sprintf("%s: unsupported geometry %s", name, g.Type))
		}
	}
	return lines, skipped, nil
}

// GeometryFeatureCollection renders a built route as a GeoJSON
// FeatureCollection with one MultiLineString feature.
func GeometryFeatureCollection(route *domain.Route, geom *domain.RouteGeometry) *geojson.FeatureCollection {
	lines := make([][][]float64, 0, len(geom.Geometry.Segments))
	for _, seg := range geom.Geometry.Segments {
		line := make([][]float64, 0, len(seg.Coordinates))
		for _, p := range seg.Coordinates {
			line = append(line, []float64{p.Lon, p.Lat})
		}
		lines = append(lines, line)
	}

	f := geojson.NewMultiLineStringFeature(lines...)
	f.SetProperty("route_id", geom.RouteID)
	f.SetProperty("name", route.Name)
	if route.Color != "" {
		f.SetProperty("color", route.Color)
	}
	f.SetProperty("distance_m", geom.Stats.DistanceMeters)
	f.SetProperty("point_count", geom.Stats.PointCount)
	f.SetProperty("segment_count", geom.Stats.SegmentCount)

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(f)
	return fc
}

func featureName(f *geojson.Feature, index int) string {
	if name := f.PropertyMustString("name", ""); name != "" {
		return name
	}
	if id, ok := f.ID.(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("feature %d", index+1)
}

func buildRoute(name string, f *geojson.Feature, pts []domain.GeoPoint) domain.Route {
	return domain.Route{
		Name:        name,
		Description: f.PropertyMustString("description", ""),
		Color:       f.PropertyMustString("color", ""),
		Waypoints:   pts,
		Options: domain.PathOptions{
			Steps: f.PropertyMustInt("steps", 0),
			Dash:  f.PropertyMustFloat64("dash", 0),
			Wrap:  f.PropertyMustBool("wrap", true),
		}.Normalize(),
	}
}

// toPoints converts GeoJSON [lon, lat] positions into points.
func toPoints(coords [][]float64) ([]domain.GeoPoint, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("line has %d positions, need at least 2", len(coords))
	}
	pts := make([]domain.GeoPoint, 0, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("position %d has %d values, need at least 2", i, len(c))
		}
		pts = append(pts, domain.GeoPoint{Lat: c[1], Lon: c[0]})
	}
	return pts, nil
}
