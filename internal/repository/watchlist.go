package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monateja9999/stock-trek-server/internal/models"
)

type WatchlistRepo struct {
	pool *pgxpool.Pool
}

func NewWatchlistRepo(pool *pgxpool.Pool) *WatchlistRepo {
	return &WatchlistRepo{pool: pool}
}

func (r *WatchlistRepo) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT company_ticker, company_name, query FROM watchlist ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.CompanyTicker, &e.CompanyName, &e.Query); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Add inserts the entry as-is. Duplicate tickers are not rejected here.
func (r *WatchlistRepo) Add(ctx context.Context, e models.WatchlistEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO watchlist (company_ticker, company_name, query) VALUES ($1, $2, $3)`,
		e.CompanyTicker, e.CompanyName, e.Query,
	)
	return err
}

// Remove deletes one entry for the ticker. The bool reports whether a
// row was actually deleted so callers can distinguish 404 from success.
func (r *WatchlistRepo) Remove(ctx context.Context, ticker string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist WHERE id IN (
			SELECT id FROM watchlist WHERE company_ticker = $1 LIMIT 1
		)`,
		ticker,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
