package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if existing := c.GetRespHeader("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/healthz" || path == "/readyz":
			ttl = "no-cache" // Probes want the live answer

		case strings.HasPrefix(path, "/v1/geodesic") || path == "/v1/distance":
			ttl = "public, max-age=3600" // Pure functions of the query

		case strings.HasSuffix(path, "/geometry") || strings.HasSuffix(path, "/stats"):
			ttl = "public, max-age=300" // Rebuilds invalidate within minutes

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}
