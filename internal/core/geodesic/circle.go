package geodesic

import (
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// Circle computes a closed ring of opts.Steps+1 vertices at radiusMeters
// around center, starting and ending due north. Rings that straddle the
// antimeridian are split into multiple segments; the crossing is resolved
// along the chord between consecutive vertices since no single bearing
// from the center describes the arc between them.
func (e Ellipsoid) Circle(center domain.GeoPoint, radiusMeters float64, opts domain.PathOptions) (domain.MultiPolyline, error) {
	opts = opts.Normalize()
	sb := &segmentBuilder{}

	first, err := e.Direct(center, 0, radiusMeters, opts.Wrap)
	if err != nil {
		return domain.MultiPolyline{}, err
	}
	prev := first.Point
	sb.startSegment(prev)

	for s := 1; s <= opts.Steps; {
		dir, err := e.Direct(center, 360/float64(opts.Steps)*float64(s), radiusMeters, opts.Wrap)
		if err != nil {
			return domain.MultiPolyline{}, err
		}
		gp := dir.Point
		if math.Abs(gp.Lon-prev.Lon) > 180 {
			chord, err := e.Inverse(prev, gp)
			if err != nil {
				return domain.MultiPolyline{}, err
			}
			if cont, ok := e.splitAtAntimeridian(sb, prev, chord.InitialBearing, gp, prev); ok {
				prev = cont
				continue
			}
			sb.startSegment(gp)
			prev = gp
			s++
			continue
		}
		sb.append(gp)
		prev = gp
		s++
	}
	return sb.build(), nil
}
