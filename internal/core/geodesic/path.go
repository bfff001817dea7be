package geodesic

import (
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// The reference meridian used to resolve antimeridian crossings sits just
// short of +-180 so the spherical intersection stays well conditioned.
const (
	crossingLat = -89
	crossingLon = 179.999
)

// segmentBuilder accumulates a MultiPolyline one segment at a time. The
// antimeridian control flow has exactly two states: extending the currently
// open segment, or starting a new one.
type segmentBuilder struct {
	segments []domain.GeoLineString
}

// startSegment opens a new segment seeded with p.
func (sb *segmentBuilder) startSegment(p domain.GeoPoint) {
	sb.segments = append(sb.segments, domain.GeoLineString{Coordinates: []domain.GeoPoint{p}})
}

// append adds p to the currently open segment.
func (sb *segmentBuilder) append(p domain.GeoPoint) {
	last := len(sb.segments) - 1
	sb.segments[last].Coordinates = append(sb.segments[last].Coordinates, p)
}

func (sb *segmentBuilder) build() domain.MultiPolyline {
	return domain.MultiPolyline{Segments: sb.segments}
}

// BuildPath computes the geodesic multi-polyline through each input waypoint
// sequence. Every leg is subdivided into opts.Steps points and split
// wherever it crosses the antimeridian; opts.Dash below 1 produces dashed
// output. Empty input sequences are skipped; every other sequence
// contributes at least one segment.
func (e Ellipsoid) BuildPath(lines [][]domain.GeoPoint, opts domain.PathOptions) (domain.MultiPolyline, error) {
	opts = opts.Normalize()
	sb := &segmentBuilder{}
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if err := e.buildLine(sb, line, opts); err != nil {
			return domain.MultiPolyline{}, err
		}
	}
	return sb.build(), nil
}

func (e Ellipsoid) buildLine(sb *segmentBuilder, line []domain.GeoPoint, opts domain.PathOptions) error {
	prev := line[0]
	sb.startSegment(prev)
	for i := 0; i < len(line)-1; i++ {
		from, to := line[i], line[i+1]
		if from == to {
			continue
		}
		inv, err := e.Inverse(from, to)
		if err != nil {
			return err
		}
		if inv.Coincident {
			continue
		}
		if opts.Dash < 1 {
			prev, err = e.buildLegDashed(sb, from, inv, prev, opts)
		} else {
			prev, err = e.buildLeg(sb, from, inv, prev, opts)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// buildLeg subdivides a single leg, appending each point and splitting at
// the antimeridian whenever a step's longitude jumps by more than 180
// degrees relative to the previously emitted point.
func (e Ellipsoid) buildLeg(sb *segmentBuilder, from domain.GeoPoint, inv InverseResult, prev domain.GeoPoint, opts domain.PathOptions) (domain.GeoPoint, error) {
	step := inv.Distance / float64(opts.Steps)
	for s := 1; s <= opts.Steps; {
		dir, err := e.Direct(from, inv.InitialBearing, step*float64(s), opts.Wrap)
		if err != nil {
			return prev, err
		}
		gp := dir.Point
		if math.Abs(gp.Lon-prev.Lon) > 180 {
			if cont, ok := e.splitAtAntimeridian(sb, from, inv.InitialBearing, gp, prev); ok {
				// Re-evaluate the same target from the far side.
				prev = cont
				continue
			}
			// No crossing point: treat the jump as genuine.
			sb.startSegment(gp)
			prev = gp
			s++
			continue
		}
		sb.append(gp)
		prev = gp
		s++
	}
	return prev, nil
}

// buildLegDashed is the dashed variant: each step emits a dash-start point
// that closes the open segment and a dash-end point that opens the next
// one-point segment, leaving a gap of (1-dash) of the sub-step between
// dashes. Antimeridian handling is identical, triggered off the dash-start
// point.
func (e Ellipsoid) buildLegDashed(sb *segmentBuilder, from domain.GeoPoint, inv InverseResult, prev domain.GeoPoint, opts domain.PathOptions) (domain.GeoPoint, error) {
	step := inv.Distance / float64(opts.Steps)
	for s := 1; s <= opts.Steps; {
		dir, err := e.Direct(from, inv.InitialBearing, step*float64(s)-step*(1-opts.Dash), opts.Wrap)
		if err != nil {
			return prev, err
		}
		gp := dir.Point
		if math.Abs(gp.Lon-prev.Lon) > 180 {
			if cont, ok := e.splitAtAntimeridian(sb, from, inv.InitialBearing, gp, prev); ok {
				prev = cont
				continue
			}
			sb.startSegment(gp)
			prev = gp
			s++
			continue
		}
		sb.append(gp)
		end, err := e.Direct(from, inv.InitialBearing, step*float64(s), opts.Wrap)
		if err != nil {
			return prev, err
		}
		sb.startSegment(end.Point)
		prev = end.Point
		s++
	}
	return prev, nil
}

// splitAtAntimeridian resolves the exact dateline crossing for a jump from
// prev to gp on the great circle leaving from at bearingDeg. On success the
// crossing point closes the current segment and the mirrored continuation
// point opens the next one; the continuation is returned. On a degenerate
// intersection the builder is left untouched and ok is false.
func (e Ellipsoid) splitAtAntimeridian(sb *segmentBuilder, from domain.GeoPoint, bearingDeg float64, gp, prev domain.GeoPoint) (domain.GeoPoint, bool) {
	lon := float64(crossingLon)
	if gp.Lon-prev.Lon > 0 {
		lon = -crossingLon
	}
	sec, ok := Intersect(from, bearingDeg, domain.GeoPoint{Lat: crossingLat, Lon: lon}, 0)
	if !ok {
		return domain.GeoPoint{}, false
	}
	sb.append(sec)
	cont := domain.GeoPoint{Lat: sec.Lat, Lon: -sec.Lon}
	sb.startSegment(cont)
	return cont, true
}
