// Package terminal drives the interactive card menu over a line-oriented
// reader and writer.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/funding"
	"github.com/congo-pay/cardbank/internal/logging"
	"github.com/congo-pay/cardbank/internal/payments"
)

const (
	loggedOutMenu = "1. Create an account\n2. Log into account\n0. Exit"
	loggedInMenu  = "1. Balance\n2. Add income\n3. Do transfer\n4. Close account\n5. Log out\n0. Exit"
)

type state int

const (
	stateLoggedOut state = iota
	stateLoggedIn
	stateExit
)

// Menu is the two-level card menu. It holds the current session explicitly
// and advances one choice per loop iteration.
type Menu struct {
	accounts *account.Service
	funding  *funding.Service
	payments *payments.Service
	logger   *slog.Logger

	in  *bufio.Scanner
	out io.Writer

	state   state
	session account.Session
}

// New builds a menu reading choices from in and writing prompts to out.
func New(accounts *account.Service, fundingSvc *funding.Service, paymentSvc *payments.Service, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Menu{
		accounts: accounts,
		funding:  fundingSvc,
		payments: paymentSvc,
		logger:   logger,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops until the user exits or input ends. It returns an error only for
// failures the user cannot act on, such as an unreachable store.
func (m *Menu) Run(ctx context.Context) error {
	for m.state != stateExit {
		if err := ctx.Err(); err != nil {
			return err
		}

		menu := loggedOutMenu
		if m.state == stateLoggedIn {
			menu = loggedInMenu
		}
		choice, ok := m.ask(menu)
		if !ok {
			break
		}

		var err error
		if m.state == stateLoggedIn {
			err = m.loggedIn(ctx, choice)
		} else {
			err = m.loggedOut(ctx, choice)
		}
		if err != nil {
			return err
		}
	}
	m.say("Bye!")
	return nil
}

func (m *Menu) loggedOut(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		creds, err := m.accounts.Create(ctx)
		if err != nil {
			return fmt.Errorf("create card: %w", err)
		}
		m.say(fmt.Sprintf("Your card has been created\nYour card number:\n%s\nYour card PIN:\n%s\n", creds.Number, creds.PIN))
	case "2":
		number, ok := m.ask("Enter your card number:")
		if !ok {
			m.state = stateExit
			return nil
		}
		pin, ok := m.ask("Enter your PIN:")
		if !ok {
			m.state = stateExit
			return nil
		}
		sess, err := m.accounts.Authenticate(ctx, strings.TrimSpace(number), strings.TrimSpace(pin))
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				m.say("Wrong card number or PIN!\n")
				return nil
			}
			return fmt.Errorf("log in: %w", err)
		}
		m.session = sess
		m.state = stateLoggedIn
		m.say("You have successfully logged in!\n")
	case "0":
		m.state = stateExit
	}
	return nil
}

func (m *Menu) loggedIn(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		balance, err := m.accounts.Balance(ctx, m.session)
		if err != nil {
			return m.fail(err)
		}
		m.say(fmt.Sprintf("Balance: %d\n", balance))
	case "2":
		raw, ok := m.ask("Enter income:")
		if !ok {
			m.state = stateExit
			return nil
		}
		amount, err := parseAmount(raw)
		if err != nil {
			m.say("Invalid amount!\n")
			return nil
		}
		if _, err := m.funding.Deposit(ctx, m.session, amount); err != nil {
			return m.fail(err)
		}
		m.say("Income was added!\n")
	case "3":
		return m.transfer(ctx)
	case "4":
		if err := m.accounts.Close(ctx, m.session); err != nil {
			return m.fail(err)
		}
		m.logout()
		m.say("The account has been closed!\n")
	case "5":
		m.logout()
		m.say("You have successfully logged out!\n")
	case "0":
		m.state = stateExit
	}
	return nil
}

func (m *Menu) transfer(ctx context.Context) error {
	to, ok := m.ask("Transfer\nEnter card number:")
	if !ok {
		m.state = stateExit
		return nil
	}
	to = strings.TrimSpace(to)
	if _, err := m.payments.CheckDestination(ctx, m.session, to); err != nil {
		return m.fail(err)
	}

	raw, ok := m.ask("Enter how much money you want to transfer:")
	if !ok {
		m.state = stateExit
		return nil
	}
	amount, err := parseAmount(raw)
	if err != nil {
		m.say("Invalid amount!\n")
		return nil
	}
	if _, err := m.payments.Transfer(ctx, m.session, payments.TransferInput{ToNumber: to, Amount: amount}); err != nil {
		return m.fail(err)
	}
	m.say("Success!\n")
	return nil
}

// fail prints the message for a domain error and returns any other error.
func (m *Menu) fail(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		// the card was closed or its PIN no longer matches
		m.logout()
		m.say("Wrong card number or PIN!\n")
	case errors.Is(err, account.ErrInvalidCardNumber):
		m.say("Probably you made a mistake in the card number. Please try again!\n")
	case errors.Is(err, account.ErrSelfTransfer):
		m.say("You can't transfer money to the same account!\n")
	case errors.Is(err, account.ErrDestinationNotFound):
		m.say("Such a card does not exist.\n")
	case errors.Is(err, account.ErrInsufficientFunds):
		m.say("Not enough money!\n")
	case errors.Is(err, account.ErrInvalidAmount):
		m.say("Invalid amount!\n")
	case errors.Is(err, account.ErrBalanceOverflow):
		m.say("Balance limit exceeded!\n")
	default:
		m.logger.Error("menu action failed", slog.Any("error", err))
		return err
	}
	return nil
}

func (m *Menu) logout() {
	m.session = account.Session{}
	m.state = stateLoggedOut
}

func (m *Menu) ask(prompt string) (string, bool) {
	m.say(prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) say(text string) {
	fmt.Fprintln(m.out, text)
}

func parseAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, account.ErrInvalidAmount
	}
	return amount, nil
}
