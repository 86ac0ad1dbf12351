package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const cardSchema = `CREATE TABLE IF NOT EXISTS card (
	id      BIGSERIAL PRIMARY KEY,
	number  TEXT NOT NULL UNIQUE,
	pin     TEXT NOT NULL,
	balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
)`

// NewPostgresPool configures and returns a PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Migrate creates the card table when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, cardSchema); err != nil {
		return fmt.Errorf("migrate card table: %w", err)
	}
	return nil
}
