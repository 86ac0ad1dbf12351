package funding

// DepositRequest is the body of a deposit call.
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// DepositResponse reports the balance after a deposit.
type DepositResponse struct {
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}
