package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/notification"
)

// Service moves funds between two cards.
type Service struct {
	store    ledger.Store
	accounts *account.Service
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a payment service.
func NewService(store ledger.Store, accounts *account.Service, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{store: store, accounts: accounts, notifier: notifier, logger: logger}
}

// TransferInput captures the data needed to move funds to another card.
type TransferInput struct {
	ToNumber string
	Amount   int64
}

// TransferResult describes the outcome of a committed transfer.
type TransferResult struct {
	TransferID  string
	FromBalance int64
	ToBalance   int64
	CompletedAt time.Time
}

// CheckDestination runs the checks that precede the amount: it authenticates
// the source, Luhn-validates the destination, rejects a self transfer and
// confirms the destination exists. The interactive menu calls it before
// prompting for the amount.
func (s *Service) CheckDestination(ctx context.Context, sess account.Session, toNumber string) (ledger.Account, error) {
	from, err := s.accounts.Resolve(ctx, sess)
	if err != nil {
		return ledger.Account{}, err
	}
	if !card.LuhnValid(toNumber) {
		return ledger.Account{}, account.ErrInvalidCardNumber
	}
	if toNumber == from.Number {
		return ledger.Account{}, account.ErrSelfTransfer
	}
	if _, err := s.store.FindByNumber(ctx, toNumber); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ledger.Account{}, account.ErrDestinationNotFound
		}
		return ledger.Account{}, fmt.Errorf("find destination: %w", err)
	}
	return from, nil
}

// Transfer debits the session's card and credits the destination by the same
// amount as one atomic unit. Validation order: source credentials, destination
// checksum, self transfer, destination existence, amount, available funds.
func (s *Service) Transfer(ctx context.Context, sess account.Session, input TransferInput) (TransferResult, error) {
	from, err := s.CheckDestination(ctx, sess, input.ToNumber)
	if err != nil {
		return TransferResult{}, err
	}
	if input.Amount <= 0 {
		return TransferResult{}, account.ErrInvalidAmount
	}
	if input.Amount > from.Balance {
		return TransferResult{}, account.ErrInsufficientFunds
	}

	res, err := s.store.Transfer(ctx, from.Number, input.ToNumber, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return TransferResult{}, account.ErrInsufficientFunds
		case errors.Is(err, ledger.ErrBalanceOverflow):
			return TransferResult{}, account.ErrBalanceOverflow
		case errors.Is(err, ledger.ErrAccountNotFound):
			// one side was closed after the checks above
			if _, findErr := s.store.FindByNumber(ctx, from.Number); findErr != nil {
				return TransferResult{}, account.ErrInvalidCredentials
			}
			return TransferResult{}, account.ErrDestinationNotFound
		default:
			return TransferResult{}, fmt.Errorf("transfer: %w", err)
		}
	}

	outcome := TransferResult{
		TransferID:  uuid.NewString(),
		FromBalance: res.FromBalance,
		ToBalance:   res.ToBalance,
		CompletedAt: time.Now().UTC(),
	}

	s.logger.Info("transfer completed",
		slog.String("transfer_id", outcome.TransferID),
		slog.String("from", card.Mask(from.Number)),
		slog.String("to", card.Mask(input.ToNumber)),
		slog.Int64("amount", input.Amount),
	)
	notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
		Kind:         notification.KindTransfer,
		Destination:  card.Mask(input.ToNumber),
		Counterparty: card.Mask(from.Number),
		Amount:       input.Amount,
		Balance:      res.ToBalance,
		OccurredAt:   outcome.CompletedAt,
	})

	return outcome, nil
}
