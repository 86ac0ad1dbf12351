package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/notification"
)

// Service credits income to authenticated cards.
type Service struct {
	store    ledger.Store
	accounts *account.Service
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService prepares a deposit service.
func NewService(store ledger.Store, accounts *account.Service, notifier notification.Notifier, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account service is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{store: store, accounts: accounts, notifier: notifier, logger: logger}, nil
}

// DepositResult represents the outcome of a deposit.
type DepositResult struct {
	Amount      int64
	Balance     int64
	CompletedAt time.Time
}

// Deposit adds a positive amount to the session's card and returns the new balance.
func (s *Service) Deposit(ctx context.Context, sess account.Session, amount int64) (DepositResult, error) {
	if amount <= 0 {
		return DepositResult{}, account.ErrInvalidAmount
	}

	acct, err := s.accounts.Resolve(ctx, sess)
	if err != nil {
		return DepositResult{}, err
	}

	balance, err := s.store.Credit(ctx, acct.Number, amount)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			// closed between authentication and credit
			return DepositResult{}, account.ErrInvalidCredentials
		}
		if errors.Is(err, ledger.ErrBalanceOverflow) {
			return DepositResult{}, account.ErrBalanceOverflow
		}
		return DepositResult{}, fmt.Errorf("credit card: %w", err)
	}

	s.logger.Info("deposit completed",
		slog.String("card", card.Mask(acct.Number)),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
	)
	notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindDeposit,
		Destination: card.Mask(acct.Number),
		Amount:      amount,
		Balance:     balance,
	})

	return DepositResult{Amount: amount, Balance: balance, CompletedAt: time.Now().UTC()}, nil
}
