package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound indicates no card row matched the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateNumber indicates the card number is already issued.
	ErrDuplicateNumber = errors.New("card number already issued")

	// ErrInvalidAmount is returned for non-positive credits and transfers.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrBalanceOverflow indicates a credit that would exceed the largest
	// representable balance.
	ErrBalanceOverflow = errors.New("balance limit exceeded")
)

// Account is one row of the card table.
type Account struct {
	ID      int64  `json:"id"`
	Number  string `json:"number"`
	PIN     string `json:"pin"`
	Balance int64  `json:"balance"`
}

// TransferResult captures both balances after a committed transfer.
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
}

// Store defines the contract implemented by card storage backends (e.g. Postgres).
// Credit and Transfer are atomic: a failed call leaves every balance unchanged.
type Store interface {
	Insert(ctx context.Context, number, pin string) (Account, error)
	FindByCredentials(ctx context.Context, number, pin string) (Account, error)
	FindByNumber(ctx context.Context, number string) (Account, error)
	Credit(ctx context.Context, number string, amount int64) (int64, error)
	Transfer(ctx context.Context, fromNumber, toNumber string, amount int64) (TransferResult, error)
	Delete(ctx context.Context, number, pin string) error
}
