package ledger

import (
	"context"
	"math"
	"sync"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[string]Account

	// afterWrite runs with mu held after every successful mutation.
	afterWrite func() error
}

// NewInMemory creates a concurrency-safe in-memory store useful for unit tests.
func NewInMemory() Store {
	return newInMemory()
}

func newInMemory() *inMemoryStore {
	return &inMemoryStore{nextID: 1, accounts: make(map[string]Account)}
}

func (s *inMemoryStore) Insert(_ context.Context, number, pin string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[number]; exists {
		return Account{}, ErrDuplicateNumber
	}
	acct := Account{ID: s.nextID, Number: number, PIN: pin}
	s.accounts[number] = acct
	s.nextID++
	if err := s.commit(); err != nil {
		delete(s.accounts, number)
		s.nextID--
		return Account{}, err
	}
	return acct, nil
}

func (s *inMemoryStore) FindByCredentials(_ context.Context, number, pin string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[number]
	if !ok || acct.PIN != pin {
		return Account{}, ErrAccountNotFound
	}
	return acct, nil
}

func (s *inMemoryStore) FindByNumber(_ context.Context, number string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[number]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return acct, nil
}

func (s *inMemoryStore) Credit(_ context.Context, number string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[number]
	if !ok {
		return 0, ErrAccountNotFound
	}
	if acct.Balance > math.MaxInt64-amount {
		return 0, ErrBalanceOverflow
	}
	prev := acct
	acct.Balance += amount
	s.accounts[number] = acct
	if err := s.commit(); err != nil {
		s.accounts[number] = prev
		return 0, err
	}
	return acct.Balance, nil
}

func (s *inMemoryStore) Transfer(_ context.Context, fromNumber, toNumber string, amount int64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromNumber]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}
	to, ok := s.accounts[toNumber]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}
	if fromNumber == toNumber {
		return TransferResult{FromBalance: from.Balance, ToBalance: to.Balance}, nil
	}
	if from.Balance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}
	if to.Balance > math.MaxInt64-amount {
		return TransferResult{}, ErrBalanceOverflow
	}

	prevFrom, prevTo := from, to
	from.Balance -= amount
	to.Balance += amount
	s.accounts[fromNumber] = from
	s.accounts[toNumber] = to

	if err := s.commit(); err != nil {
		s.accounts[fromNumber] = prevFrom
		s.accounts[toNumber] = prevTo
		return TransferResult{}, err
	}
	return TransferResult{FromBalance: from.Balance, ToBalance: to.Balance}, nil
}

func (s *inMemoryStore) Delete(_ context.Context, number, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok || acct.PIN != pin {
		return ErrAccountNotFound
	}
	delete(s.accounts, number)
	if err := s.commit(); err != nil {
		s.accounts[number] = acct
		return err
	}
	return nil
}

func (s *inMemoryStore) commit() error {
	if s.afterWrite == nil {
		return nil
	}
	return s.afterWrite()
}

// total sums every balance; tests use it to check conservation.
func (s *inMemoryStore) total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, acct := range s.accounts {
		sum += acct.Balance
	}
	return sum
}
