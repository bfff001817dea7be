package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	geojsonadapter "github.com/samirrijal/arcline/internal/adapters/geojson"
	"github.com/samirrijal/arcline/internal/adapters/postgres"
	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/usecases"
	"github.com/samirrijal/arcline/internal/pkg/config"
	"github.com/samirrijal/arcline/internal/pkg/geospatial"
)

// The importer bulk-loads routes from a GeoJSON FeatureCollection, given as
// a local file or a URL. With the optional "precompute" argument it also
// builds and stores each imported route's geometry so the first API read
// does not pay for it.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <file-or-url> [precompute]")
	}
	source := os.Args[1]
	precompute := len(os.Args) > 2 && os.Args[2] == "precompute"

	cfg, err := config.Load("arcline-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	data, err := readSource(source)
	if err != nil {
		log.Fatalf("read %s: %v", source, err)
	}

	routes, skipped, err := geojsonadapter.ParseRoutes(data)
	if err != nil {
		log.Fatalf("parse %s: %v", source, err)
	}
	for _, s := range skipped {
		log.Printf("SKIP %s", s)
	}
	if len(routes) == 0 {
		log.Fatal("no importable line features found")
	}

	describeRoutes(routes)

	routeRepo := postgres.NewRouteRepo(db)
	if err := routeRepo.UpsertBatch(ctx, routes); err != nil {
		log.Fatalf("upsert routes: %v", err)
	}
	log.Printf("imported %d routes (%d features skipped)", len(routes), len(skipped))

	if precompute {
		precomputeGeometry(ctx, db, routeRepo, routes, cfg.Worker.Concurrency)
	}
}

// describeRoutes logs per-route spherical estimates before the ellipsoidal
// build happens, and flags near-antipodal legs, which the geodesic solver
// handles with degraded precision.
func describeRoutes(routes []domain.Route) {
	for i := range routes {
		r := &routes[i]
		log.Printf("  %-40s %d waypoints, ~%.1f km",
			r.Name, len(r.Waypoints), geospatial.RoughLength(r.Waypoints)/1000)

		for j := 0; j < len(r.Waypoints)-1; j++ {
			if geospatial.NearAntipodal(r.Waypoints[j], r.Waypoints[j+1]) {
				log.Printf("  WARNING %s: waypoints %d and %d are nearly antipodal, expect reduced precision",
					r.Name, j+1, j+2)
			}
		}
	}
}

// precomputeGeometry builds and stores the geometry of every imported route
// with bounded concurrency. Failures are logged per route and do not stop
// the batch.
func precomputeGeometry(ctx context.Context, db *postgres.DB, routeRepo *postgres.RouteRepo, routes []domain.Route, concurrency int) {
	geomRepo := postgres.NewGeometryRepo(db)
	pathSvc := usecases.NewPathService()
	routeSvc := usecases.NewRouteService(routeRepo, geomRepo, pathSvc, nil, nil)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var mu sync.Mutex
	built := 0

	for _, r := range routes {
		wg.Add(1)
		go func(routeID, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			geom, err := routeSvc.Rebuild(ctx, routeID, "import")
			if err != nil {
				log.Printf("ERROR %s: %v", name, err)
				return
			}
			log.Printf("  %-40s %.1f km in %d segments",
				name, geom.Stats.DistanceMeters/1000, geom.Stats.SegmentCount)

			mu.Lock()
			built++
			mu.Unlock()
		}(r.ID, r.Name)
	}

	wg.Wait()
	log.Printf("precomputed geometry for %d/%d routes", built, len(routes))
}

func readSource(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 120 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}
