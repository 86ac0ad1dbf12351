package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/logging"
)

// internalErrorMessage is the only body a 500 response carries.
const internalErrorMessage = "internal error"

// LocalSession is the fiber.Ctx locals key holding the authenticated Session.
const LocalSession = "session"

// Handler exposes card lifecycle endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a card HTTP handler. A nil logger discards output.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{service: service, logger: logger}
}

type credentialsResponse struct {
	Number string `json:"number"`
	PIN    string `json:"pin"`
}

// Create issues a new card.
func (h *Handler) Create(c *fiber.Ctx) error {
	creds, err := h.service.Create(c.UserContext())
	if err != nil {
		return HTTPError(h.logger, err)
	}
	return c.Status(http.StatusCreated).JSON(credentialsResponse{Number: creds.Number, PIN: creds.PIN})
}

// Balance returns the balance of the session's card.
func (h *Handler) Balance(c *fiber.Ctx) error {
	sess, ok := SessionFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	}
	balance, err := h.service.Balance(c.UserContext(), sess)
	if err != nil {
		return HTTPError(h.logger, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"number":  sess.Number,
		"balance": balance,
	})
}

// Close deletes the session's card.
func (h *Handler) Close(c *fiber.Ctx) error {
	sess, ok := SessionFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	}
	if err := h.service.Close(c.UserContext(), sess); err != nil {
		return HTTPError(h.logger, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SessionFrom returns the session stored by the session middleware.
func SessionFrom(c *fiber.Ctx) (Session, bool) {
	sess, ok := c.Locals(LocalSession).(Session)
	return sess, ok
}

// HTTPError maps card errors to HTTP errors. Unexpected errors are logged and
// reported as a bare 500 so store details never reach the client.
func HTTPError(logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInvalidCardNumber),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDestinationNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrBalanceOverflow):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed", slog.Any("error", err))
		}
		return fiber.NewError(http.StatusInternalServerError, internalErrorMessage)
	}
}
