// Package polyline implements Google's encoded polyline algorithm at the
// standard 1e-5 precision. Stored geometries carry one encoded string per
// segment so map frontends can render them without parsing coordinate
// arrays.
package polyline

import (
	"math"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// Encode encodes a point sequence into a polyline string.
func Encode(points []domain.GeoPoint) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*4)
	prevLat, prevLon := 0, 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lon := int(math.Round(p.Lon * 1e5))

		buf = appendValue(buf, lat-prevLat)
		buf = appendValue(buf, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

// Decode decodes a polyline string back into points. Coordinates come back
// rounded to the codec's 1e-5 resolution.
func Decode(encoded string) []domain.GeoPoint {
	if encoded == "" {
		return nil
	}

	var points []domain.GeoPoint
	index, lat, lon := 0, 0, 0

	for index < len(encoded) {
		latDelta, next := decodeValue(encoded, index)
		index = next
		lat += latDelta

		lonDelta, next := decodeValue(encoded, index)
		index = next
		lon += lonDelta

		points = append(points, domain.GeoPoint{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return points
}

// EncodeSegments encodes each segment of a multi-polyline separately,
// preserving segment boundaries across the antimeridian.
func EncodeSegments(mp domain.MultiPolyline) []string {
	if len(mp.Segments) == 0 {
		return nil
	}
	encoded := make([]string, len(mp.Segments))
	for i, seg := range mp.Segments {
		encoded[i] = Encode(seg.Coordinates)
	}
	return encoded
}

// DecodeSegments is the inverse of EncodeSegments.
func DecodeSegments(encoded []string) domain.MultiPolyline {
	if len(encoded) == 0 {
		return domain.MultiPolyline{}
	}
	mp := domain.MultiPolyline{Segments: make([]domain.GeoLineString, len(encoded))}
	for i, s := range encoded {
		mp.Segments[i] = domain.GeoLineString{Coordinates: Decode(s)}
	}
	return mp
}

// appendValue encodes one signed delta in 5-bit chunks.
func appendValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

// decodeValue reads one signed delta starting at index and returns it with
// the index of the next unread byte.
func decodeValue(encoded string, index int) (int, int) {
	shift, result := 0, 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
