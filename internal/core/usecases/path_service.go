package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/geodesic"
)

// PathService computes geodesic geometry on the reference ellipsoid.
type PathService struct {
	ell geodesic.Ellipsoid
}

// NewPathService creates a new PathService on WGS 84.
func NewPathService() *PathService {
	return &PathService{ell: geodesic.WGS84}
}

// BuildPath computes the multi-polyline through each input waypoint
// sequence. Independent sequences are built concurrently and stitched back
// together in input order.
func (s *PathService) BuildPath(ctx context.Context, lines [][]domain.GeoPoint, opts domain.PathOptions) (domain.MultiPolyline, error) {
	for _, line := range lines {
		if err := validatePoints(line); err != nil {
			return domain.MultiPolyline{}, err
		}
	}
	opts = opts.Normalize()
	if len(lines) <= 1 {
		return s.ell.BuildPath(lines, opts)
	}
	if err := ctx.Err(); err != nil {
		return domain.MultiPolyline{}, err
	}

	results := make([]domain.MultiPolyline, len(lines))
	errs := make([]error, len(lines))

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 concurrent line builds
	for i, line := range lines {
		wg.Add(1)
		go func(i int, line []domain.GeoPoint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i], errs[i] = s.ell.BuildPath([][]domain.GeoPoint{line}, opts)
		}(i, line)
	}
	wg.Wait()

	var merged domain.MultiPolyline
	for i := range results {
		if errs[i] != nil {
			return domain.MultiPolyline{}, errs[i]
		}
		merged.Segments = append(merged.Segments, results[i].Segments...)
	}
	return merged, nil
}

// BuildCircle computes a closed ring around center.
func (s *PathService) BuildCircle(ctx context.Context, center domain.GeoPoint, radiusMeters float64, opts domain.PathOptions) (domain.MultiPolyline, error) {
	if err := validatePoints([]domain.GeoPoint{center}); err != nil {
		return domain.MultiPolyline{}, err
	}
	if radiusMeters <= 0 {
		return domain.MultiPolyline{}, fmt.Errorf("radius %v must be positive: %w", radiusMeters, domain.ErrInvalid)
	}
	return s.ell.Circle(center, radiusMeters, opts)
}

// Inverse solves the inverse geodesic problem between two points.
func (s *PathService) Inverse(ctx context.Context, p1, p2 domain.GeoPoint) (geodesic.InverseResult, error) {
	if err := validatePoints([]domain.GeoPoint{p1, p2}); err != nil {
		return geodesic.InverseResult{}, err
	}
	return s.ell.Inverse(p1, p2)
}

// Direct solves the direct geodesic problem from an origin point.
func (s *PathService) Direct(ctx context.Context, origin domain.GeoPoint, bearingDeg, distanceMeters float64, wrap bool) (geodesic.DirectResult, error) {
	if err := validatePoints([]domain.GeoPoint{origin}); err != nil {
		return geodesic.DirectResult{}, err
	}
	if distanceMeters < 0 {
		return geodesic.DirectResult{}, fmt.Errorf("distance %v must not be negative: %w", distanceMeters, domain.ErrInvalid)
	}
	return s.ell.Direct(origin, bearingDeg, distanceMeters, wrap)
}

// Stats measures a multi-polyline.
func (s *PathService) Stats(ctx context.Context, mp domain.MultiPolyline) (domain.GeometryStats, error) {
	return s.ell.Stats(mp)
}

func validatePoints(points []domain.GeoPoint) error {
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 {
			return fmt.Errorf("latitude %v out of range [-90,90]: %w", p.Lat, domain.ErrInvalid)
		}
		if p.Lon < -180 || p.Lon > 180 {
			return fmt.Errorf("longitude %v out of range [-180,180]: %w", p.Lon, domain.ErrInvalid)
		}
	}
	return nil
}
