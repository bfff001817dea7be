package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/arcline/internal/adapters/postgres"
	"github.com/samirrijal/arcline/internal/adapters/valkey"
	"github.com/samirrijal/arcline/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Paths  *usecases.PathService
	Routes *usecases.RouteService
	NATS   *nats.Conn
	DB     *postgres.DB
	Cache  *valkey.Cache

	// MaxSteps caps the per-leg step count accepted on ad-hoc path and
	// circle requests. Zero means no cap.
	MaxSteps int
}
