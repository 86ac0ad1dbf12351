package payments

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/account"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Transfer moves money from the session's card to another card.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	sess, ok := account.SessionFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, account.ErrInvalidCredentials.Error())
	}
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Transfer(c.UserContext(), sess, TransferInput{
		ToNumber: req.To,
		Amount:   req.Amount,
	})
	if err != nil {
		return account.HTTPError(h.logger, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transfer_id":  res.TransferID,
		"from_balance": res.FromBalance,
		"to_balance":   res.ToBalance,
		"completed_at": res.CompletedAt,
	})
}
