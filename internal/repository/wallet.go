package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monateja9999/stock-trek-server/internal/models"
)

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Get returns the singleton wallet record, or (nil, nil) when no row
// exists yet. Reads take the first row found.
func (r *WalletRepo) Get(ctx context.Context) (*models.WalletRecord, error) {
	var w models.WalletRecord
	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM wallet ORDER BY id ASC LIMIT 1`,
	).Scan(&w.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// SetBalance overwrites the balance of every wallet row. With the
// expected singleton row this is the one cash balance.
func (r *WalletRepo) SetBalance(ctx context.Context, balance string) error {
	_, err := r.pool.Exec(ctx, `UPDATE wallet SET balance = $1`, balance)
	return err
}
