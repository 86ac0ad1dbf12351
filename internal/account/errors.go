package account

import (
	"errors"

	"github.com/congo-pay/cardbank/internal/card"
	"github.com/congo-pay/cardbank/internal/ledger"
)

// Errors returned by card operations. All of them are recoverable; none leaves
// a balance partially updated.
var (
	// ErrInvalidCredentials indicates no card matches the (number, PIN) pair.
	ErrInvalidCredentials = errors.New("wrong card number or PIN")
	// ErrInvalidCardNumber indicates a transfer destination failing the Luhn check.
	ErrInvalidCardNumber = errors.New("invalid card number")
	// ErrSelfTransfer indicates a transfer whose destination is the source card.
	ErrSelfTransfer = errors.New("cannot transfer to the same card")
	// ErrDestinationNotFound indicates a well-formed destination with no card behind it.
	ErrDestinationNotFound = errors.New("destination card does not exist")

	ErrInsufficientFunds   = ledger.ErrInsufficientFunds
	ErrInvalidAmount       = ledger.ErrInvalidAmount
	ErrBalanceOverflow     = ledger.ErrBalanceOverflow
	ErrGenerationExhausted = card.ErrGenerationExhausted
)
