package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is a string key on purpose: pkg/log reads the same literal
// when enriching entries, so the two packages must agree.
const RequestIDKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// FromFiberCtx lifts the request id out of the fiber request into a fresh
// context.Context for the service layer. Fiber's context is recycled after
// the handler returns, so it must never cross that boundary.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = "unknown"
	}

	return WithRequestID(context.Background(), requestID)
}
