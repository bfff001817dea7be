package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// GeometryRepo implements ports.GeometryRepository.
type GeometryRepo struct {
	db *DB
}

func NewGeometryRepo(db *DB) *GeometryRepo { return &GeometryRepo{db: db} }

func (r *GeometryRepo) Upsert(ctx context.Context, geom *domain.RouteGeometry) error {
	segments, err := json.Marshal(geom.Geometry.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO route_geometries
			(route_id, segments, encoded, distance_m, point_count, segment_count, steps, dash, wrap, built_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (route_id) DO UPDATE
		SET segments = EXCLUDED.segments, encoded = EXCLUDED.encoded,
		    distance_m = EXCLUDED.distance_m, point_count = EXCLUDED.point_count,
		    segment_count = EXCLUDED.segment_count, steps = EXCLUDED.steps,
		    dash = EXCLUDED.dash, wrap = EXCLUDED.wrap, built_at = EXCLUDED.built_at
	`, geom.RouteID, segments, geom.Encoded,
		geom.Stats.DistanceMeters, geom.Stats.PointCount, geom.Stats.SegmentCount,
		geom.Options.Steps, geom.Options.Dash, geom.Options.Wrap, geom.BuiltAt)
	return mapError(err)
}

func (r *GeometryRepo) GetByRouteID(ctx context.Context, routeID string) (*domain.RouteGeometry, error) {
	var g domain.RouteGeometry
	var segments []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT route_id, segments, encoded, distance_m, point_count, segment_count,
		       steps, dash, wrap, built_at
		FROM route_geometries WHERE route_id = $1
	`, routeID).Scan(&g.RouteID, &segments, &g.Encoded,
		&g.Stats.DistanceMeters, &g.Stats.PointCount, &g.Stats.SegmentCount,
		&g.Options.Steps, &g.Options.Dash, &g.Options.Wrap, &g.BuiltAt)
	if err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(segments, &g.Geometry.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	return &g, nil
}

func (r *GeometryRepo) DeleteByRouteID(ctx context.Context, routeID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM route_geometries WHERE route_id = $1`, routeID)
	return mapError(err)
}

// ListStale returns routes whose geometry is missing, older than the route's
// last update, or built before the given floor.
func (r *GeometryRepo) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT r.id
		FROM routes r
		LEFT JOIN route_geometries g ON g.route_id = r.id
		WHERE g.route_id IS NULL OR g.built_at < r.updated_at OR g.built_at < $1
		ORDER BY r.updated_at DESC
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
