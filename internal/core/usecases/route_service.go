package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/ports"
	"github.com/samirrijal/arcline/internal/pkg/polyline"
)

// RouteService handles stored-route business logic.
type RouteService struct {
	routes     ports.RouteRepository
	geoms      ports.GeometryRepository
	paths      *PathService
	cache      ports.CacheService
	publisher  ports.EventPublisher
	geomTTL    int // seconds
	previewTTL int // seconds
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	routes ports.RouteRepository,
	geoms ports.GeometryRepository,
	paths *PathService,
	cache ports.CacheService,
	publisher ports.EventPublisher,
) *RouteService {
	return &RouteService{
		routes:     routes,
		geoms:      geoms,
		paths:      paths,
		cache:      cache,
		publisher:  publisher,
		geomTTL:    3600, // geometry only changes on rebuild
		previewTTL: 300,  // previews are short-lived
	}
}

// SetGeometryTTL overrides the cache lifetime for stored geometry.
func (s *RouteService) SetGeometryTTL(seconds int) {
	if seconds > 0 {
		s.geomTTL = seconds
	}
}

// Create validates and stores a new route, then queues its first geometry
// build.
func (s *RouteService) Create(ctx context.Context, route *domain.Route) error {
	if err := validateRoute(route); err != nil {
		return err
	}
	route.Options = route.Options.Normalize()
	if err := s.routes.Create(ctx, route); err != nil {
		return err
	}
	s.queueRebuild(ctx, route.ID, "route created")
	return nil
}

// Update validates and stores route changes. The stored geometry is stale
// afterwards, so the cache entry is dropped and a rebuild queued.
func (s *RouteService) Update(ctx context.Context, route *domain.Route) error {
	if err := validateRoute(route); err != nil {
		return err
	}
	route.Options = route.Options.Normalize()
	if err := s.routes.Update(ctx, route); err != nil {
		return err
	}
	s.invalidate(ctx, route.ID)
	s.queueRebuild(ctx, route.ID, "route updated")
	return nil
}

// GetByID returns a route by its UUID.
func (s *RouteService) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

// List returns stored routes.
func (s *RouteService) List(ctx context.Context, limit, offset int) ([]domain.Route, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.routes.List(ctx, limit, offset)
}

// Count reports the total number of stored routes, for pagination headers.
func (s *RouteService) Count(ctx context.Context) (int, error) {
	return s.routes.Count(ctx)
}

// ListIDs returns every stored route ID, oldest first.
func (s *RouteService) ListIDs(ctx context.Context) ([]string, error) {
	return s.routes.ListIDs(ctx)
}

// Delete removes a route. Its geometry row goes with it.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Geometry returns the stored geometry of a route, building it on first
// access.
func (s *RouteService) Geometry(ctx context.Context, routeID string) (*domain.RouteGeometry, error) {
	cacheKey := geometryCacheKey(routeID)

	// Try cache
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var geom domain.RouteGeometry
			if err := json.Unmarshal(data, &geom); err == nil {
				return &geom, nil
			}
		}
	}

	geom, err := s.geoms.GetByRouteID(ctx, routeID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.Rebuild(ctx, routeID, "first access")
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(geom); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.geomTTL)
		}
	}
	return geom, nil
}

// Preview computes a route's geometry with ad-hoc options without touching
// the stored geometry.
func (s *RouteService) Preview(ctx context.Context, routeID string, opts domain.PathOptions) (*domain.RouteGeometry, error) {
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	cacheKey := fmt.Sprintf("%s:%d:%g:%t", geometryCacheKey(routeID), opts.Steps, opts.Dash, opts.Wrap)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var geom domain.RouteGeometry
			if err := json.Unmarshal(data, &geom); err == nil {
				return &geom, nil
			}
		}
	}

	geom, err := s.build(ctx, route, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(geom); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.previewTTL)
		}
	}
	return geom, nil
}

// Rebuild recomputes, stores and announces a route's geometry.
func (s *RouteService) Rebuild(ctx context.Context, routeID, reason string) (*domain.RouteGeometry, error) {
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	geom, err := s.build(ctx, route, route.Options)
	if err != nil {
		return nil, fmt.Errorf("build geometry for route %s: %w", routeID, err)
	}

	if err := s.geoms.Upsert(ctx, geom); err != nil {
		return nil, fmt.Errorf("store geometry for route %s: %w", routeID, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(geom); err == nil {
			_ = s.cache.Set(ctx, geometryCacheKey(routeID), data, s.geomTTL)
		}
	}
	if s.publisher != nil {
		_ = s.publisher.PublishGeometryUpdated(ctx, &domain.GeometryEvent{
			RouteID: routeID,
			Stats:   geom.Stats,
			Reason:  reason,
			BuiltAt: geom.BuiltAt,
		})
	}
	return geom, nil
}

// RequestRebuild queues an asynchronous rebuild, or rebuilds inline when no
// broker is configured.
func (s *RouteService) RequestRebuild(ctx context.Context, routeID, reason string) error {
	if _, err := s.routes.GetByID(ctx, routeID); err != nil {
		return err
	}
	if s.publisher == nil {
		_, err := s.Rebuild(ctx, routeID, reason)
		return err
	}
	return s.publisher.PublishRecomputeRequested(ctx, &domain.RecomputeRequest{
		RouteID:     routeID,
		Reason:      reason,
		RequestedAt: time.Now(),
	})
}

// Stats returns the measurement summary of a route's geometry.
func (s *RouteService) Stats(ctx context.Context, routeID string) (*domain.GeometryStats, error) {
	geom, err := s.Geometry(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return &geom.Stats, nil
}

func (s *RouteService) build(ctx context.Context, route *domain.Route, opts domain.PathOptions) (*domain.RouteGeometry, error) {
	mp, err := s.paths.BuildPath(ctx, [][]domain.GeoPoint{route.Waypoints}, opts)
	if err != nil {
		return nil, err
	}
	stats, err := s.paths.Stats(ctx, mp)
	if err != nil {
		return nil, err
	}
	return &domain.RouteGeometry{
		RouteID:  route.ID,
		Geometry: mp,
		Encoded:  polyline.EncodeSegments(mp),
		Stats:    stats,
		Options:  opts,
		BuiltAt:  time.Now().UTC(),
	}, nil
}

func (s *RouteService) invalidate(ctx context.Context, routeID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, geometryCacheKey(routeID))
	}
}

func (s *RouteService) queueRebuild(ctx context.Context, routeID, reason string) {
	if s.publisher != nil {
		_ = s.publisher.PublishRecomputeRequested(ctx, &domain.RecomputeRequest{
			RouteID:     routeID,
			Reason:      reason,
			RequestedAt: time.Now(),
		})
	}
}

func geometryCacheKey(routeID string) string {
	return "arcline:geom:" + routeID
}

func validateRoute(route *domain.Route) error {
	if route.Name == "" {
		return fmt.Errorf("route name is required: %w", domain.ErrInvalid)
	}
	if len(route.Waypoints) < 2 {
		return fmt.Errorf("route needs at least 2 waypoints, got %d: %w", len(route.Waypoints), domain.ErrInvalid)
	}
	return validatePoints(route.Waypoints)
}
