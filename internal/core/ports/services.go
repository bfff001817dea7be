package ports

import (
	"context"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeometryUpdated(ctx context.Context, event *domain.GeometryEvent) error
	PublishRecomputeRequested(ctx context.Context, req *domain.RecomputeRequest) error
	PublishRefreshCompleted(ctx context.Context, summary *domain.RefreshSummary) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeGeometryUpdates(ctx context.Context, handler func(ctx context.Context, event *domain.GeometryEvent) error) error
	SubscribeRecomputeRequests(ctx context.Context, handler func(ctx context.Context, req *domain.RecomputeRequest) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
