package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// MultiPolyline is an ordered collection of longitude-continuous segments.
// Paths that cross the antimeridian are split so that no segment contains a
// longitude discontinuity of more than 180 degrees.
type MultiPolyline struct {
	Segments []GeoLineString `json:"segments"`
}

// PointCount returns the total number of vertices across all segments.
func (mp MultiPolyline) PointCount() int {
	n := 0
	for _, seg := range mp.Segments {
		n += len(seg.Coordinates)
	}
	return n
}

// Bounds returns the bounding box enclosing every segment. The second return
// is false when the multi-polyline has no points.
func (mp MultiPolyline) Bounds() (Bounds, bool) {
	var b Bounds
	found := false
	for _, seg := range mp.Segments {
		for _, p := range seg.Coordinates {
			if !found {
				b = Bounds{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
				found = true
				continue
			}
			if p.Lat < b.MinLat {
				b.MinLat = p.Lat
			}
			if p.Lat > b.MaxLat {
				b.MaxLat = p.Lat
			}
			if p.Lon < b.MinLon {
				b.MinLon = p.Lon
			}
			if p.Lon > b.MaxLon {
				b.MaxLon = p.Lon
			}
		}
	}
	return b, found
}

// PathOptions controls geodesic path generation.
type PathOptions struct {
	// Steps is the number of subdivision points per leg.
	Steps int `json:"steps"`
	// Dash is the fraction of each sub-step that is drawn, in (0,1].
	// Values below 1 produce dashed output.
	Dash float64 `json:"dash"`
	// Wrap normalizes destination longitudes into (-180,180]. Without it
	// longitudes accumulate past +-180 so callers can track paths that
	// revolve around the globe.
	Wrap bool `json:"wrap"`
}

// DefaultPathOptions returns the standard options: 10 steps per leg, solid
// lines, wrapped longitudes.
func DefaultPathOptions() PathOptions {
	return PathOptions{Steps: 10, Dash: 1, Wrap: true}
}

// Normalize replaces out-of-range option values with their defaults. Wrap is
// taken as provided.
func (o PathOptions) Normalize() PathOptions {
	if o.Steps < 1 {
		o.Steps = 10
	}
	if o.Dash <= 0 || o.Dash > 1 {
		o.Dash = 1
	}
	return o
}

// GeometryStats summarizes a built multi-polyline.
type GeometryStats struct {
	DistanceMeters float64 `json:"distance_m"`
	PointCount     int     `json:"point_count"`
	SegmentCount   int     `json:"segment_count"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}
