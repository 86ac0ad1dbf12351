package funding

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/account"
)

// Handler exposes HTTP endpoints for adding income to a card.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Deposit credits the session's card.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	sess, ok := account.SessionFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, account.ErrInvalidCredentials.Error())
	}
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Deposit(c.UserContext(), sess, req.Amount)
	if err != nil {
		return account.HTTPError(h.logger, err)
	}

	return c.Status(http.StatusOK).JSON(DepositResponse{
		Amount:  result.Amount,
		Balance: result.Balance,
	})
}
