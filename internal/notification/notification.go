package notification

import (
	"context"
	"log/slog"
	"time"
)

const (
	// KindCardCreated is emitted after a card is issued.
	KindCardCreated = "card.created"
	// KindDeposit is emitted after income is credited to a card.
	KindDeposit = "card.deposited"
	// KindTransfer is emitted after funds move between two cards.
	KindTransfer = "card.transferred"
	// KindCardClosed is emitted after a card is deleted.
	KindCardClosed = "card.closed"
)

// Message describes a notification payload. Card numbers are masked.
type Message struct {
	Kind         string    `json:"kind"`
	Destination  string    `json:"destination"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Balance      int64     `json:"balance"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("counterparty", message.Counterparty),
		slog.Int64("amount", message.Amount),
		slog.Int64("balance", message.Balance),
	)
	return nil
}

// Deliver sends message through n and logs failures. The mutation that
// produced the message is already committed, so errors are not propagated.
func Deliver(ctx context.Context, n Notifier, logger *slog.Logger, message Message) {
	if n == nil {
		return
	}
	if message.OccurredAt.IsZero() {
		message.OccurredAt = time.Now().UTC()
	}
	if err := n.Send(ctx, message); err != nil && logger != nil {
		logger.Warn("notification delivery failed", slog.String("kind", message.Kind), slog.Any("error", err))
	}
}
