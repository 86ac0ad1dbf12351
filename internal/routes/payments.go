package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/payments"
)

// RegisterPaymentRoutes wires card-to-card transfers.
func RegisterPaymentRoutes(me fiber.Router, h *payments.Handler) {
	me.Post("/transfers", h.Transfer)
}
