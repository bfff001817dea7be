package geodesic

import "github.com/samirrijal/arcline/internal/core/domain"

// Stats sums the pairwise geodesic distance along every segment of mp and
// counts its points and segments. Single-point segments contribute no
// distance.
func (e Ellipsoid) Stats(mp domain.MultiPolyline) (domain.GeometryStats, error) {
	var stats domain.GeometryStats
	stats.SegmentCount = len(mp.Segments)
	for _, seg := range mp.Segments {
		stats.PointCount += len(seg.Coordinates)
		for i := 0; i < len(seg.Coordinates)-1; i++ {
			inv, err := e.Inverse(seg.Coordinates[i], seg.Coordinates[i+1])
			if err != nil {
				return domain.GeometryStats{}, err
			}
			stats.DistanceMeters += inv.Distance
		}
	}
	return stats, nil
}
