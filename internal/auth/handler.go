package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/logging"
)

// LocalSessionID is the fiber.Ctx locals key holding the session id.
const LocalSessionID = "session_id"

// Handler exposes session endpoints for login/logout.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler constructs a session handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{svc: svc, logger: logger}
}

type loginRequest struct {
	Number string `json:"number"`
	PIN    string `json:"pin"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Number    string `json:"number"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login validates card credentials and returns a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.svc.Login(c.UserContext(), req.Number, req.PIN)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		h.logger.Error("login failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "session creation failed")
	}
	return c.Status(http.StatusCreated).JSON(loginResponse{
		Token:     token.Value,
		Number:    token.Number,
		ExpiresAt: token.ExpiresAt.Unix(),
	})
}

// Logout ends the current session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	sid, _ := c.Locals(LocalSessionID).(string)
	if sid == "" {
		return c.SendStatus(http.StatusUnauthorized)
	}
	if err := h.svc.Logout(c.UserContext(), sid); err != nil {
		h.logger.Error("logout failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "session removal failed")
	}
	return c.SendStatus(http.StatusNoContent)
}
