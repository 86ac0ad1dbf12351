package funding

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/notification"
)

type testNotifier struct {
	mu   sync.Mutex
	last notification.Message
	n    int
}

func (t *testNotifier) Send(_ context.Context, msg notification.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = msg
	t.n++
	return nil
}

func setup(t *testing.T, notifier notification.Notifier) (*Service, *account.Service, ledger.Store) {
	t.Helper()
	store := ledger.NewInMemory()
	accounts := account.NewService(store, nil, nil, nil)
	svc, err := NewService(store, accounts, notifier, nil)
	require.NoError(t, err)
	return svc, accounts, store
}

func TestNewServiceRequiresAccounts(t *testing.T) {
	_, err := NewService(ledger.NewInMemory(), nil, nil, nil)
	require.Error(t, err)
}

func TestDeposit(t *testing.T) {
	notifier := &testNotifier{}
	svc, accounts, _ := setup(t, notifier)
	ctx := context.Background()

	creds, err := accounts.Create(ctx)
	require.NoError(t, err)
	sess, err := accounts.Authenticate(ctx, creds.Number, creds.PIN)
	require.NoError(t, err)

	res, err := svc.Deposit(ctx, sess, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 100, res.Balance)

	res, err = svc.Deposit(ctx, sess, 25)
	require.NoError(t, err)
	assert.EqualValues(t, 125, res.Balance)

	balance, err := accounts.Balance(ctx, sess)
	require.NoError(t, err)
	assert.EqualValues(t, 125, balance)

	assert.Equal(t, notification.KindDeposit, notifier.last.Kind)
	assert.EqualValues(t, 25, notifier.last.Amount)
	assert.EqualValues(t, 125, notifier.last.Balance)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, accounts, _ := setup(t, nil)
	ctx := context.Background()

	creds, _ := accounts.Create(ctx)
	sess, _ := accounts.Authenticate(ctx, creds.Number, creds.PIN)

	for _, amount := range []int64{0, -1, -100} {
		_, err := svc.Deposit(ctx, sess, amount)
		require.ErrorIs(t, err, account.ErrInvalidAmount)
	}
	balance, _ := accounts.Balance(ctx, sess)
	assert.Zero(t, balance)
}

func TestDepositBeyondBalanceLimitIsRejected(t *testing.T) {
	svc, accounts, _ := setup(t, nil)
	ctx := context.Background()

	creds, _ := accounts.Create(ctx)
	sess, _ := accounts.Authenticate(ctx, creds.Number, creds.PIN)

	_, err := svc.Deposit(ctx, sess, math.MaxInt64)
	require.NoError(t, err)

	_, err = svc.Deposit(ctx, sess, 1)
	require.ErrorIs(t, err, account.ErrBalanceOverflow)

	balance, err := accounts.Balance(ctx, sess)
	require.NoError(t, err)
	assert.EqualValues(t, int64(math.MaxInt64), balance)
}

func TestDepositWrongCredentialsNeverMutates(t *testing.T) {
	svc, accounts, store := setup(t, nil)
	ctx := context.Background()

	creds, _ := accounts.Create(ctx)
	ledger.SeedBalance(store, creds.Number, 40)

	wrong := account.Session{Number: creds.Number, PIN: "0000"}
	if creds.PIN == wrong.PIN {
		wrong.PIN = "0001"
	}
	for i := 0; i < 10; i++ {
		_, err := svc.Deposit(ctx, wrong, 10)
		require.ErrorIs(t, err, account.ErrInvalidCredentials)
	}

	acct, err := store.FindByNumber(ctx, creds.Number)
	require.NoError(t, err)
	assert.EqualValues(t, 40, acct.Balance)
}

func TestConcurrentDeposits(t *testing.T) {
	svc, accounts, _ := setup(t, nil)
	ctx := context.Background()

	creds, _ := accounts.Create(ctx)
	sess, _ := accounts.Authenticate(ctx, creds.Number, creds.PIN)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, sess, 2); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	balance, err := accounts.Balance(ctx, sess)
	require.NoError(t, err)
	assert.EqualValues(t, 2*workers, balance)
}
