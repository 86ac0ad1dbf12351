package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/notification"
)

// maxCollisions bounds how often Create redraws after a card number clash.
const maxCollisions = 32

// Service manages the card lifecycle: issuance, authentication, balance reads
// and closing.
type Service struct {
	store    ledger.Store
	gen      *card.Generator
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a new card service. A nil logger discards output.
func NewService(store ledger.Store, gen *card.Generator, notifier notification.Notifier, logger *slog.Logger) *Service {
	if gen == nil {
		gen = card.NewGenerator(nil, 0)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{store: store, gen: gen, notifier: notifier, logger: logger}
}

// Create issues a new card with a zero balance and returns its credentials.
func (s *Service) Create(ctx context.Context) (Credentials, error) {
	for attempt := 0; attempt < maxCollisions; attempt++ {
		number, err := s.gen.Number()
		if err != nil {
			return Credentials{}, err
		}
		pin := s.gen.PIN()

		if _, err := s.store.Insert(ctx, number, pin); err != nil {
			if errors.Is(err, ledger.ErrDuplicateNumber) {
				s.logger.Warn("card number collision, regenerating", slog.String("card", card.Mask(number)))
				continue
			}
			return Credentials{}, fmt.Errorf("insert card: %w", err)
		}

		s.logger.Info("card created", slog.String("card", card.Mask(number)))
		notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
			Kind:        notification.KindCardCreated,
			Destination: card.Mask(number),
		})
		return Credentials{Number: number, PIN: pin}, nil
	}
	return Credentials{}, fmt.Errorf("%w: %d card number collisions", ErrGenerationExhausted, maxCollisions)
}

// Authenticate verifies the (number, PIN) pair and returns a session bound to it.
func (s *Service) Authenticate(ctx context.Context, number, pin string) (Session, error) {
	acct, err := s.Resolve(ctx, Session{Number: number, PIN: pin})
	if err != nil {
		return Session{}, err
	}
	return Session{Number: acct.Number, PIN: acct.PIN}, nil
}

// Resolve re-authenticates a session and returns the current stored account.
func (s *Service) Resolve(ctx context.Context, sess Session) (ledger.Account, error) {
	acct, err := s.store.FindByCredentials(ctx, sess.Number, sess.PIN)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ledger.Account{}, ErrInvalidCredentials
		}
		return ledger.Account{}, fmt.Errorf("find card: %w", err)
	}
	return acct, nil
}

// Balance returns the current stored balance of the session's card.
func (s *Service) Balance(ctx context.Context, sess Session) (int64, error) {
	acct, err := s.Resolve(ctx, sess)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Close permanently deletes the session's card.
func (s *Service) Close(ctx context.Context, sess Session) error {
	if err := s.store.Delete(ctx, sess.Number, sess.PIN); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("delete card: %w", err)
	}

	s.logger.Info("card closed", slog.String("card", card.Mask(sess.Number)))
	notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindCardClosed,
		Destination: card.Mask(sess.Number),
	})
	return nil
}
