package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/core/geodesic"
	"github.com/samirrijal/arcline/internal/pkg/metrics"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// errorEnvelope wraps APIError so clients can distinguish errors from
// payloads on every endpoint.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(errorEnvelope{Error: APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	}})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, 422, "unprocessable", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// mapDomainErr translates service errors into the right status code.
// Non-convergent geodesics are a property of the input pair, not a server
// fault, so they come back as 422.
func mapDomainErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, err.Error())
	case errors.Is(err, geodesic.ErrNonConvergent):
		metrics.NonConvergent.Inc()
		return errUnprocessable(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
