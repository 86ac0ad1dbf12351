package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/cardbank/internal/config"
	"github.com/congo-pay/cardbank/internal/infra"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/notification"
	"github.com/congo-pay/cardbank/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	store, db, err := infra.OpenStore(ctx, cfg.DatabaseURL, cfg.StoreFile, logger)
	if err != nil {
		logger.Error("open card store", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	var notifier notification.Notifier = notification.NewLoggerNotifier(logger)
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notification.NewAMQPNotifier(cfg.AMQPURL)
		if err != nil {
			logger.Warn("amqp unavailable, logging notifications instead", "error", err)
		} else {
			defer amqpNotifier.Close()
			notifier = amqpNotifier
		}
	}

	srv, err := server.New(cfg, store, db, cache, notifier, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
