package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/auth"
)

// RegisterAuthRoutes wires session login and logout.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, sessionMW fiber.Handler) {
	r.Post("/sessions", h.Login)
	r.Delete("/sessions", sessionMW, h.Logout)
}
