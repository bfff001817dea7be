package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samirrijal/arcline/internal/core/domain"
)

// RouteRepo implements ports.RouteRepository.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

const routeColumns = `id, name, description, color, waypoints, steps, dash, wrap, created_at, updated_at`

func (r *RouteRepo) Create(ctx context.Context, route *domain.Route) error {
	waypoints, err := json.Marshal(route.Waypoints)
	if err != nil {
		return fmt.Errorf("marshal waypoints: %w", err)
	}
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO routes (name, description, color, waypoints, steps, dash, wrap)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, route.Name, route.Description, route.Color, waypoints,
		route.Options.Steps, route.Options.Dash, route.Options.Wrap).
		Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt)
	return mapError(err)
}

func (r *RouteRepo) Update(ctx context.Context, route *domain.Route) error {
	waypoints, err := json.Marshal(route.Waypoints)
	if err != nil {
		return fmt.Errorf("marshal waypoints: %w", err)
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE routes
		SET name = $2, description = $3, color = $4, waypoints = $5,
		    steps = $6, dash = $7, wrap = $8, updated_at = now()
		WHERE id = $1
	`, route.ID, route.Name, route.Description, route.Color, waypoints,
		route.Options.Steps, route.Options.Dash, route.Options.Wrap)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertBatch inserts or refreshes routes keyed by name, filling in the
// generated IDs on the way out.
func (r *RouteRepo) UpsertBatch(ctx context.Context, routes []domain.Route) error {
	batch := &pgx.Batch{}
	for i := range routes {
		waypoints, err := json.Marshal(routes[i].Waypoints)
		if err != nil {
			return fmt.Errorf("marshal waypoints: %w", err)
		}
		batch.Queue(`
			INSERT INTO routes (name, description, color, waypoints, steps, dash, wrap)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description, color = EXCLUDED.color,
			    waypoints = EXCLUDED.waypoints, steps = EXCLUDED.steps,
			    dash = EXCLUDED.dash, wrap = EXCLUDED.wrap, updated_at = now()
			RETURNING id
		`, routes[i].Name, routes[i].Description, routes[i].Color, waypoints,
			routes[i].Options.Steps, routes[i].Options.Dash, routes[i].Options.Wrap)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range routes {
		if err := br.QueryRow().Scan(&routes[i].ID); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func (r *RouteRepo) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id)
	return scanRoute(row)
}

func (r *RouteRepo) List(ctx context.Context, limit, offset int) ([]domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+routeColumns+` FROM routes ORDER BY name LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *rt)
	}
	return routes, rows.Err()
}

func (r *RouteRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id FROM routes ORDER BY created_at`)
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

func (r *RouteRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM routes`).Scan(&n)
	return n, err
}

func (r *RouteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRoute(row pgx.Row) (*domain.Route, error) {
	var rt domain.Route
	var waypoints []byte
	err := row.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.Color, &waypoints,
		&rt.Options.Steps, &rt.Options.Dash, &rt.Options.Wrap, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(waypoints, &rt.Waypoints); err != nil {
		return nil, fmt.Errorf("unmarshal waypoints: %w", err)
	}
	return &rt, nil
}

// mapError translates pgx-level failures into domain sentinels. Malformed
// UUIDs raise 22P02 rather than an empty result, so they count as misses
// too.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02":
			return domain.ErrNotFound
		case "23505":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}
