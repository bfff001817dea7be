package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/ports"
	"github.com/samirrijal/arcline/internal/core/usecases"
	"github.com/samirrijal/arcline/internal/pkg/metrics"
)

// RefreshActivities holds the activity implementations for the geometry
// refresh workflow. They reuse the same RouteService the API serves from.
type RefreshActivities struct {
	Routes    *usecases.RouteService
	Publisher ports.EventPublisher
}

// ListRouteIDs returns every stored route ID.
func (a *RefreshActivities) ListRouteIDs(ctx context.Context) ([]string, error) {
	ids, err := a.Routes.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list route ids: %w", err)
	}
	return ids, nil
}

// RebuildRoute recomputes and stores the geometry of one route.
func (a *RefreshActivities) RebuildRoute(ctx context.Context, routeID, reason string) error {
	geom, err := a.Routes.Rebuild(ctx, routeID, reason)
	if err != nil {
		return fmt.Errorf("rebuild route %s: %w", routeID, err)
	}
	metrics.GeometryRebuilds.WithLabelValues("workflow").Inc()
	slog.Info("route geometry refreshed",
		"route_id", routeID,
		"distance_m", geom.Stats.DistanceMeters,
		"segments", geom.Stats.SegmentCount)
	return nil
}

// PublishRefreshSummary announces the run's outcome on the event stream.
func (a *RefreshActivities) PublishRefreshSummary(ctx context.Context, summary domain.RefreshSummary) error {
	if a.Publisher == nil {
		slog.Info("refresh complete (no broker)",
			"total", summary.Total, "rebuilt", summary.Rebuilt, "failed", len(summary.Failed))
		return nil
	}
	return a.Publisher.PublishRefreshCompleted(ctx, &summary)
}
