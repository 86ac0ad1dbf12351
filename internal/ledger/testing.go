package ledger

// SeedBalance is a test helper that sets the balance for a card when using the in-memory store.
func SeedBalance(s Store, number string, amount int64) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if acct, exists := mem.accounts[number]; exists {
			acct.Balance = amount
			mem.accounts[number] = acct
		}
	}
}

// Total returns the sum of all balances held by an in-memory store, or -1 for
// other backends.
func Total(s Store) int64 {
	if mem, ok := s.(*inMemoryStore); ok {
		return mem.total()
	}
	return -1
}
