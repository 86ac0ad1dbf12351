package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	localLogger     = "logger"
)

// RequestID tags every request with an identifier, reusing the caller's
// X-Request-ID when given, echoes it on the response and stores a logger
// carrying it for the rest of the chain.
func RequestID(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)
		c.Locals(requestIDHeader, reqID)
		c.Locals(localLogger, logger.With(slog.String("request_id", reqID)))

		return c.Next()
	}
}

// RequestLogger returns the request-scoped logger, or fallback outside RequestID.
func RequestLogger(c *fiber.Ctx, fallback *slog.Logger) *slog.Logger {
	if l, ok := c.Locals(localLogger).(*slog.Logger); ok {
		return l
	}
	return fallback
}
