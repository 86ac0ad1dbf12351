package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/account"
)

// RegisterCardRoutes wires card issuance on the public router and the
// session-scoped card endpoints on me.
func RegisterCardRoutes(public, me fiber.Router, h *account.Handler) {
	public.Post("/cards", h.Create)
	me.Get("/balance", h.Balance)
	me.Delete("", h.Close)
}
