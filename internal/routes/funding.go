package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/funding"
)

// RegisterFundingRoutes wires the deposit endpoint.
func RegisterFundingRoutes(me fiber.Router, h *funding.Handler) {
	me.Post("/deposits", h.Deposit)
}
