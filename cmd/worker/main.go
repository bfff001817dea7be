package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/arcline/internal/adapters/nats"
	"github.com/samirrijal/arcline/internal/adapters/postgres"
	"github.com/samirrijal/arcline/internal/adapters/valkey"
	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/ports"
	"github.com/samirrijal/arcline/internal/core/usecases"
	"github.com/samirrijal/arcline/internal/pkg/config"
	"github.com/samirrijal/arcline/internal/pkg/logging"
	"github.com/samirrijal/arcline/internal/pkg/metrics"
)

// The worker owns every asynchronous geometry rebuild: it consumes recompute
// commands from JetStream and sweeps for stale geometry on a timer.
func main() {
	cfg, err := config.Load("arcline-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache, so rebuilt geometry is warm before the API reads it again
	cache, err := valkey.New(cfg.Cache.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Publisher announces finished rebuilds; the subscriber feeds us work.
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	routeRepo := postgres.NewRouteRepo(db)
	geomRepo := postgres.NewGeometryRepo(db)
	pathSvc := usecases.NewPathService()

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	routeSvc := usecases.NewRouteService(routeRepo, geomRepo, pathSvc, cacheSvc, publisher)
	routeSvc.SetGeometryTTL(cfg.Cache.TTLSeconds)

	// Recompute commands from the API (durable consumer, redelivered on error)
	err = subscriber.SubscribeRecomputeRequests(ctx, func(ctx context.Context, req *domain.RecomputeRequest) error {
		geom, err := routeSvc.Rebuild(ctx, req.RouteID, req.Reason)
		if err != nil {
			slog.Error("rebuild failed", "route_id", req.RouteID, "reason", req.Reason, "error", err)
			return err
		}
		metrics.GeometryRebuilds.WithLabelValues("command").Inc()
		slog.Info("route geometry rebuilt",
			"route_id", req.RouteID,
			"reason", req.Reason,
			"distance_m", geom.Stats.DistanceMeters,
			"segments", geom.Stats.SegmentCount,
			"points", geom.Stats.PointCount)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe recompute: %v", err)
	}

	interval := time.Duration(cfg.Worker.RebuildIntervalSeconds) * time.Second
	staleAfter := time.Duration(cfg.Worker.StaleAfterSeconds) * time.Second

	slog.Info("geometry worker started",
		"scan_interval", interval.String(),
		"stale_after", staleAfter.String(),
		"concurrency", cfg.Worker.Concurrency)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Sweep once at startup so a fresh deployment backfills immediately.
	sweepStale(ctx, geomRepo, routeSvc, staleAfter, cfg.Worker.Concurrency)

	for {
		select {
		case <-ticker.C:
			sweepStale(ctx, geomRepo, routeSvc, staleAfter, cfg.Worker.Concurrency)
		case <-ctx.Done():
			return
		case sig := <-quit:
			slog.Info("shutting down geometry worker", "signal", sig.String())
			cancel()
			// Give in-flight rebuilds time to finish
			time.Sleep(2 * time.Second)
			return
		}
	}
}

// sweepStale rebuilds every route whose geometry is missing, older than the
// route's last update, or built before the staleness floor. Rebuilds fan out
// over a bounded set of goroutines; failures are logged and skipped so one
// bad route cannot stall the sweep.
func sweepStale(ctx context.Context, geoms ports.GeometryRepository, routes *usecases.RouteService, staleAfter time.Duration, concurrency int) {
	const sweepLimit = 200

	ids, err := geoms.ListStale(ctx, time.Now().Add(-staleAfter), sweepLimit)
	if err != nil {
		slog.Error("stale scan failed", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}
	slog.Info("stale geometry sweep", "routes", len(ids))

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, id := range ids {
		wg.Add(1)
		go func(routeID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if _, err := routes.Rebuild(ctx, routeID, "stale scan"); err != nil {
				slog.Error("stale rebuild failed", "route_id", routeID, "error", err)
				return
			}
			metrics.GeometryRebuilds.WithLabelValues("stale").Inc()
		}(id)
	}

	wg.Wait()
}
