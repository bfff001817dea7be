package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/arcline/internal/adapters/nats"
	"github.com/samirrijal/arcline/internal/adapters/postgres"
	"github.com/samirrijal/arcline/internal/core/ports"
	"github.com/samirrijal/arcline/internal/core/usecases"
	"github.com/samirrijal/arcline/internal/pkg/config"
	"github.com/samirrijal/arcline/internal/pkg/logging"
	"github.com/samirrijal/arcline/internal/workflows"
)

// The refresher hosts the Temporal workflow that rebuilds the whole fleet's
// geometry, typically kicked off after an ellipsoid constant change or a bulk
// import.
func main() {
	cfg, err := config.Load("arcline-refresher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.Temporal.Enabled {
		log.Fatal("temporal.enabled is false; set ARCLINE_TEMPORAL_ENABLED=true to run the refresher")
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Summary events are best-effort; the refresh itself only needs the DB.
	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, refresh summaries will only be logged", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	routeRepo := postgres.NewRouteRepo(db)
	geomRepo := postgres.NewGeometryRepo(db)
	pathSvc := usecases.NewPathService()
	routeSvc := usecases.NewRouteService(routeRepo, geomRepo, pathSvc, nil, publisher)
	routeSvc.SetGeometryTTL(cfg.Cache.TTLSeconds)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.GeometryRefreshWorkflow)
	w.RegisterActivity(&workflows.RefreshActivities{
		Routes:    routeSvc,
		Publisher: publisher,
	})

	slog.Info("refresher worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
