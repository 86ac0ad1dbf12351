package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/auth"
)

// SessionAuth returns a middleware that validates bearer session tokens and
// stores the session in the request locals.
func SessionAuth(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		sess, sid, err := svc.Verify(c.UserContext(), tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionNotFound) {
				return fiber.NewError(http.StatusUnauthorized, err.Error())
			}
			return fiber.NewError(http.StatusInternalServerError, "session lookup failed")
		}

		c.Locals(account.LocalSession, sess)
		c.Locals(auth.LocalSessionID, sid)
		return c.Next()
	}
}
