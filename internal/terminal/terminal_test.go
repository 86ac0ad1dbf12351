package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/funding"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/payments"
)

type fixture struct {
	store    ledger.Store
	accounts *account.Service
	funding  *funding.Service
	payments *payments.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := ledger.NewInMemory()
	accounts := account.NewService(store, nil, nil, nil)
	fundingSvc, err := funding.NewService(store, accounts, nil, nil)
	require.NoError(t, err)
	return fixture{
		store:    store,
		accounts: accounts,
		funding:  fundingSvc,
		payments: payments.NewService(store, accounts, nil, nil),
	}
}

func (f fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	menu := New(f.accounts, f.funding, f.payments, in, &out, nil)
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func TestCreateAndExit(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "1", "0")

	assert.Contains(t, out, "Your card has been created\nYour card number:\n400000")
	assert.Contains(t, out, "Your card PIN:\n")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestLoginWrongPIN(t *testing.T) {
	f := newFixture(t)
	creds, err := f.accounts.Create(context.Background())
	require.NoError(t, err)

	pin := "0000"
	if creds.PIN == pin {
		pin = "0001"
	}
	out := f.run(t, "2", creds.Number, pin, "0")
	assert.Contains(t, out, "Wrong card number or PIN!")
	assert.NotContains(t, out, "You have successfully logged in!")
}

func TestLoggedInSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.accounts.Create(ctx)
	require.NoError(t, err)
	bob, err := f.accounts.Create(ctx)
	require.NoError(t, err)

	out := f.run(t,
		"2", alice.Number, alice.PIN,
		"1",
		"2", "500",
		"2", "-5",
		"3", "4000001234567890",
		"3", alice.Number,
		"3", "4532015112830366",
		"3", bob.Number, "900",
		"3", bob.Number, "200",
		"1",
		"5",
		"0",
	)

	assert.Contains(t, out, "You have successfully logged in!")
	assert.Contains(t, out, "Balance: 0")
	assert.Contains(t, out, "Income was added!")
	assert.Contains(t, out, "Invalid amount!")
	assert.Contains(t, out, "Probably you made a mistake in the card number. Please try again!")
	assert.Contains(t, out, "You can't transfer money to the same account!")
	assert.Contains(t, out, "Such a card does not exist.")
	assert.Contains(t, out, "Not enough money!")
	assert.Contains(t, out, "Success!")
	assert.Contains(t, out, "Balance: 300")
	assert.Contains(t, out, "You have successfully logged out!")

	bobSess, err := f.accounts.Authenticate(ctx, bob.Number, bob.PIN)
	require.NoError(t, err)
	balance, err := f.accounts.Balance(ctx, bobSess)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)
}

func TestCloseAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creds, err := f.accounts.Create(ctx)
	require.NoError(t, err)

	out := f.run(t, "2", creds.Number, creds.PIN, "4", "0")
	assert.Contains(t, out, "The account has been closed!")
	// back at the logged-out menu after closing
	assert.True(t, strings.HasSuffix(out, loggedOutMenu+"\nBye!\n"))

	_, err = f.accounts.Authenticate(ctx, creds.Number, creds.PIN)
	require.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestUnknownChoiceRepeatsMenu(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "7", "abc", "0")
	assert.Equal(t, 3, strings.Count(out, loggedOutMenu))
}

func TestEOFExits(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer
	menu := New(f.accounts, f.funding, f.payments, strings.NewReader(""), &out, nil)
	require.NoError(t, menu.Run(context.Background()))
	assert.Equal(t, loggedOutMenu+"\nBye!\n", out.String())
}
