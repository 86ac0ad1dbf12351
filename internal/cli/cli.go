// Package cli holds the subcommands of the bank binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/config"
	"github.com/congo-pay/cardbank/internal/funding"
	"github.com/congo-pay/cardbank/internal/infra"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/notification"
	"github.com/congo-pay/cardbank/internal/payments"
)

// Services are the card services a command runs against.
type Services struct {
	Accounts *account.Service
	Funding  *funding.Service
	Payments *payments.Service
	Logger   *slog.Logger
	Close    func()
}

// Opener builds the services for one command invocation.
type Opener func(ctx context.Context) (*Services, error)

// Env is what commands share: how to reach the services and where to talk.
type Env struct {
	Open Opener
	In   io.Reader
	Out  io.Writer
	Err  io.Writer
}

// Commands returns every bank subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&shellCmd{env: env},
		&createCmd{env: env},
		&balanceCmd{env: env},
		&depositCmd{env: env},
		&transferCmd{env: env},
		&closeCmd{env: env},
	}
}

// DefaultEnv talks over the process stdio and opens services from the
// environment configuration.
func DefaultEnv() *Env {
	return &Env{Open: OpenFromConfig, In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// OpenFromConfig loads the configuration and opens the configured store.
// Logs go to stderr so they stay out of the menu.
func OpenFromConfig(ctx context.Context) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	store, db, err := infra.OpenStore(ctx, cfg.DatabaseURL, cfg.StoreFile, logger)
	if err != nil {
		return nil, err
	}
	closers := []func(){}
	if db != nil {
		closers = append(closers, db.Close)
	}

	var notifier notification.Notifier = notification.NewLoggerNotifier(logger)
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notification.NewAMQPNotifier(cfg.AMQPURL)
		if err != nil {
			logger.Warn("amqp unavailable, logging notifications instead", slog.Any("error", err))
		} else {
			notifier = amqpNotifier
			closers = append(closers, func() { _ = amqpNotifier.Close() })
		}
	}

	svc, err := NewServices(store, card.NewGenerator(nil, cfg.CardMaxAttempts), notifier, logger)
	if err != nil {
		return nil, err
	}
	svc.Close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return svc, nil
}

// NewServices wires the card services over store.
func NewServices(store ledger.Store, gen *card.Generator, notifier notification.Notifier, logger *slog.Logger) (*Services, error) {
	accounts := account.NewService(store, gen, notifier, logger)
	fundingSvc, err := funding.NewService(store, accounts, notifier, logger)
	if err != nil {
		return nil, err
	}
	return &Services{
		Accounts: accounts,
		Funding:  fundingSvc,
		Payments: payments.NewService(store, accounts, notifier, logger),
		Logger:   logger,
		Close:    func() {},
	}, nil
}
