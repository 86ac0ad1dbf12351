package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

const (
	cardA = "4000001234567899"
	cardB = "4532015112830366"
)

func seededStore(t *testing.T) Store {
	t.Helper()
	s := NewInMemory()
	ctx := context.Background()
	if _, err := s.Insert(ctx, cardA, "1111"); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if _, err := s.Insert(ctx, cardB, "2222"); err != nil {
		t.Fatalf("insert b: %v", err)
	}
	return s
}

func TestInMemoryStore_InsertRejectsDuplicateNumber(t *testing.T) {
	s := seededStore(t)
	if _, err := s.Insert(context.Background(), cardA, "9999"); !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("expected duplicate number, got %v", err)
	}
}

func TestInMemoryStore_InsertAssignsIDsAndZeroBalance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	a, _ := s.Insert(ctx, cardA, "0001")
	b, _ := s.Insert(ctx, cardB, "0001")
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %d and %d", a.ID, b.ID)
	}
	if a.Balance != 0 || b.Balance != 0 {
		t.Fatalf("expected zero balances, got %d and %d", a.Balance, b.Balance)
	}
}

func TestInMemoryStore_FindByCredentials(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	acct, err := s.FindByCredentials(ctx, cardA, "1111")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if acct.Number != cardA {
		t.Fatalf("expected %s, got %s", cardA, acct.Number)
	}
	if _, err := s.FindByCredentials(ctx, cardA, "2222"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found for wrong pin, got %v", err)
	}
	if _, err := s.FindByNumber(ctx, "4000000000000002"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInMemoryStore_TransferMaintainsBalance(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	SeedBalance(s, cardA, 10_000)

	res, err := s.Transfer(ctx, cardA, cardB, 1_500)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if res.FromBalance != 8_500 {
		t.Fatalf("expected from balance 8500, got %d", res.FromBalance)
	}
	if res.ToBalance != 1_500 {
		t.Fatalf("expected to balance 1500, got %d", res.ToBalance)
	}
	if total := Total(s); total != 10_000 {
		t.Fatalf("store not balanced, total=%d", total)
	}
}

func TestInMemoryStore_TransferInsufficientFundsLeavesBalances(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	SeedBalance(s, cardA, 100)

	if _, err := s.Transfer(ctx, cardA, cardB, 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	a, _ := s.FindByNumber(ctx, cardA)
	b, _ := s.FindByNumber(ctx, cardB)
	if a.Balance != 100 || b.Balance != 0 {
		t.Fatalf("balances changed: a=%d b=%d", a.Balance, b.Balance)
	}
}

func TestInMemoryStore_CreditOverflowLeavesBalance(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	SeedBalance(s, cardA, math.MaxInt64)

	if _, err := s.Credit(ctx, cardA, 1); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected balance overflow, got %v", err)
	}
	a, _ := s.FindByNumber(ctx, cardA)
	if a.Balance != math.MaxInt64 {
		t.Fatalf("expected balance to stay at max, got %d", a.Balance)
	}
}

func TestInMemoryStore_TransferOverflowLeavesBalances(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	SeedBalance(s, cardA, 10)
	SeedBalance(s, cardB, math.MaxInt64-5)

	if _, err := s.Transfer(ctx, cardA, cardB, 6); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected balance overflow, got %v", err)
	}
	a, _ := s.FindByNumber(ctx, cardA)
	b, _ := s.FindByNumber(ctx, cardB)
	if a.Balance != 10 || b.Balance != math.MaxInt64-5 {
		t.Fatalf("expected balances untouched, got a=%d b=%d", a.Balance, b.Balance)
	}

	res, err := s.Transfer(ctx, cardA, cardB, 5)
	if err != nil {
		t.Fatalf("transfer up to the limit: %v", err)
	}
	if res.ToBalance != math.MaxInt64 || res.FromBalance != 5 {
		t.Fatalf("unexpected balances %+v", res)
	}
}

func TestInMemoryStore_RejectsNonPositiveAmounts(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	for _, amount := range []int64{0, -5} {
		if _, err := s.Credit(ctx, cardA, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("credit %d: expected invalid amount, got %v", amount, err)
		}
		if _, err := s.Transfer(ctx, cardA, cardB, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("transfer %d: expected invalid amount, got %v", amount, err)
		}
	}
}

func TestInMemoryStore_ConcurrentTransfers(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	SeedBalance(s, cardA, 1_000)
	SeedBalance(s, cardB, 1_000)

	const workers = 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Transfer(ctx, cardA, cardB, 3)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Transfer(ctx, cardB, cardA, 2)
		}()
	}
	wg.Wait()

	a, _ := s.FindByNumber(ctx, cardA)
	b, _ := s.FindByNumber(ctx, cardB)
	if a.Balance < 0 || b.Balance < 0 {
		t.Fatalf("negative balance: a=%d b=%d", a.Balance, b.Balance)
	}
	if total := a.Balance + b.Balance; total != 2_000 {
		t.Fatalf("store not balanced after concurrency, total=%d", total)
	}
}

func TestInMemoryStore_ConcurrentCredits(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	const workers = 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Credit(ctx, cardA, 1); err != nil {
				t.Errorf("credit: %v", err)
			}
		}()
	}
	wg.Wait()

	a, _ := s.FindByNumber(ctx, cardA)
	if a.Balance != workers {
		t.Fatalf("expected balance %d, got %d", workers, a.Balance)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	if err := s.Delete(ctx, cardA, "0000"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found for wrong pin, got %v", err)
	}
	if err := s.Delete(ctx, cardA, "1111"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.FindByNumber(ctx, cardA); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected deleted card to be gone, got %v", err)
	}
}
