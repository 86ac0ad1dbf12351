package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/congo-pay/cardbank/internal/auth"
	"github.com/congo-pay/cardbank/internal/config"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/notification"
	"github.com/congo-pay/cardbank/internal/routes"
)

// sweepSchedule is how often expired in-memory sessions are dropped.
const sweepSchedule = "@every 1m"

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	cron   *cron.Cron
	logger *slog.Logger
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
// Sessions live in Redis when cache is set; otherwise they are kept in memory
// and swept on a schedule.
func New(cfg config.Config, store ledger.Store, db *pgxpool.Pool, cache *redis.Client, notifier notification.Notifier, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	var sessions auth.SessionStore
	if cache != nil {
		sessions = auth.NewRedisSessionStore(cache)
	} else {
		memory := auth.NewMemorySessionStore()
		if _, err := c.AddFunc(sweepSchedule, func() {
			if n := memory.Sweep(); n > 0 {
				logger.Debug("expired sessions swept", slog.Int("count", n))
			}
		}); err != nil {
			return nil, err
		}
		sessions = memory
	}

	err := routes.Setup(app, routes.Deps{
		Cfg:      cfg,
		Store:    store,
		DB:       db,
		Cache:    cache,
		Sessions: sessions,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, cron: c, logger: logger}, nil
}

// Listen starts the scheduler and the HTTP server.
func (s *Server) Listen() error {
	s.cron.Start()
	return s.app.Listen(s.cfg.Address())
}

// Shutdown stops the scheduler and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	<-s.cron.Stop().Done()
	return s.app.ShutdownWithContext(ctx)
}
