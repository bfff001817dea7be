package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/arcline/internal/pkg/logging"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDLogMiddleware stores a request-scoped logger carrying the Fiber
// request ID in the user context, so services reached from this request log
// with the ID attached.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, ok := c.Locals("requestid").(string)
		if !ok || rid == "" {
			return c.Next()
		}

		ctx := context.WithValue(c.Context(), requestIDKey, rid)
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("request_id", rid))
		c.SetUserContext(ctx)

		return c.Next()
	}
}
