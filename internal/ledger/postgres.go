package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation   = "23505"
	numericOutOfRange = "22003"
)

// PostgresStore persists cards in the PostgreSQL card table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store implementation.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert adds a card with a zero balance.
func (s *PostgresStore) Insert(ctx context.Context, number, pin string) (Account, error) {
	acct := Account{Number: number, PIN: pin}
	err := s.db.QueryRow(ctx, `INSERT INTO card (number, pin) VALUES ($1, $2)
        RETURNING id, balance`, number, pin).Scan(&acct.ID, &acct.Balance)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Account{}, ErrDuplicateNumber
		}
		return Account{}, err
	}
	return acct, nil
}

// FindByCredentials fetches the card matching both number and PIN.
func (s *PostgresStore) FindByCredentials(ctx context.Context, number, pin string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT id, number, pin, balance FROM card WHERE number = $1 AND pin = $2`, number, pin)
	return scanAccount(row)
}

// FindByNumber fetches a card by number alone.
func (s *PostgresStore) FindByNumber(ctx context.Context, number string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT id, number, pin, balance FROM card WHERE number = $1`, number)
	return scanAccount(row)
}

// Credit adds amount to the card balance in a single statement.
func (s *PostgresStore) Credit(ctx context.Context, number string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	var balance int64
	err := s.db.QueryRow(ctx, `UPDATE card SET balance = balance + $1 WHERE number = $2 RETURNING balance`, amount, number).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, translateOverflow(err)
	}
	return balance, nil
}

// Transfer debits one card and credits another inside one transaction. Both
// rows are locked in number order so concurrent opposite transfers cannot deadlock.
func (s *PostgresStore) Transfer(ctx context.Context, fromNumber, toNumber string, amount int64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	rows, err := tx.Query(ctx, `SELECT number, balance FROM card WHERE number = ANY($1)
        ORDER BY number FOR UPDATE`, []string{fromNumber, toNumber})
	if err != nil {
		return TransferResult{}, err
	}
	balances := make(map[string]int64, 2)
	for rows.Next() {
		var (
			number  string
			balance int64
		)
		if err := rows.Scan(&number, &balance); err != nil {
			rows.Close()
			return TransferResult{}, err
		}
		balances[number] = balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return TransferResult{}, err
	}

	fromBalance, ok := balances[fromNumber]
	if !ok {
		return TransferResult{}, fmt.Errorf("from card: %w", ErrAccountNotFound)
	}
	toBalance, ok := balances[toNumber]
	if !ok {
		return TransferResult{}, fmt.Errorf("to card: %w", ErrAccountNotFound)
	}
	if fromNumber == toNumber {
		return TransferResult{FromBalance: fromBalance, ToBalance: toBalance}, nil
	}
	if fromBalance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE card SET balance = balance - $1 WHERE number = $2`, amount, fromNumber); err != nil {
		return TransferResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE card SET balance = balance + $1 WHERE number = $2`, amount, toNumber); err != nil {
		return TransferResult{}, translateOverflow(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{FromBalance: fromBalance - amount, ToBalance: toBalance + amount}, nil
}

// Delete removes the card matching number and PIN.
func (s *PostgresStore) Delete(ctx context.Context, number, pin string) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM card WHERE number = $1 AND pin = $2`, number, pin)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var acct Account
	if err := row.Scan(&acct.ID, &acct.Number, &acct.PIN, &acct.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return acct, nil
}

// translateOverflow maps a bigint overflow on a balance update to ErrBalanceOverflow.
func translateOverflow(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == numericOutOfRange {
		return ErrBalanceOverflow
	}
	return err
}
