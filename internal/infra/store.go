package infra

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/congo-pay/cardbank/internal/ledger"
)

// OpenStore returns the Postgres store when databaseURL is set and the JSON
// file store at storeFile otherwise. The pool is nil for the file store and
// must be closed by the caller otherwise.
func OpenStore(ctx context.Context, databaseURL, storeFile string, logger *slog.Logger) (ledger.Store, *pgxpool.Pool, error) {
	if databaseURL == "" {
		store, err := ledger.OpenFile(storeFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", slog.String("path", storeFile))
		return store, nil, nil
	}

	pool, err := NewPostgresPool(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("using postgres store")
	return ledger.NewPostgresStore(pool), pool, nil
}
