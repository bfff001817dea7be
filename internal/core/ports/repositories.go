package ports

import (
	"context"
	"time"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// RouteRepository persists route definitions.
type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) error
	Update(ctx context.Context, route *domain.Route) error
	UpsertBatch(ctx context.Context, routes []domain.Route) error
	GetByID(ctx context.Context, id string) (*domain.Route, error)
	List(ctx context.Context, limit, offset int) ([]domain.Route, error)
	ListIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// GeometryRepository persists computed route geometries.
type GeometryRepository interface {
	Upsert(ctx context.Context, geom *domain.RouteGeometry) error
	GetByRouteID(ctx context.Context, routeID string) (*domain.RouteGeometry, error)
	DeleteByRouteID(ctx context.Context, routeID string) error
	// ListStale returns IDs of routes whose stored geometry predates the
	// route's last update, or is missing entirely.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
}
