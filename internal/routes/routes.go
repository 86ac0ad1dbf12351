package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/auth"
	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/config"
	"github.com/congo-pay/cardbank/internal/funding"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/middleware"
	"github.com/congo-pay/cardbank/internal/notification"
	"github.com/congo-pay/cardbank/internal/payments"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional; Sessions must be set.
type Deps struct {
	Cfg      config.Config
	Store    ledger.Store
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Sessions auth.SessionStore
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil {
		return fmt.Errorf("card store is required")
	}
	if d.Sessions == nil {
		return fmt.Errorf("session store is required")
	}
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID(d.Logger))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	gen := card.NewGenerator(nil, d.Cfg.CardMaxAttempts)
	accountSvc := account.NewService(d.Store, gen, d.Notifier, d.Logger)
	fundingSvc, err := funding.NewService(d.Store, accountSvc, d.Notifier, d.Logger)
	if err != nil {
		return err
	}
	paymentSvc := payments.NewService(d.Store, accountSvc, d.Notifier, d.Logger)
	authSvc := auth.NewService(accountSvc, d.Sessions, d.Cfg.SessionSecret, d.Cfg.SessionTTL)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	sessionMW := middleware.SessionAuth(authSvc)
	meHandlers := []fiber.Handler{sessionMW}
	if d.Cache != nil {
		meHandlers = append(meHandlers, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	me := api.Group("/cards/me", meHandlers...)

	RegisterAuthRoutes(api, auth.NewHandler(authSvc, d.Logger), sessionMW)
	RegisterCardRoutes(api, me, account.NewHandler(accountSvc, d.Logger))
	RegisterFundingRoutes(me, funding.NewHandler(fundingSvc, d.Logger))
	RegisterPaymentRoutes(me, payments.NewHandler(paymentSvc, d.Logger))

	return nil
}
