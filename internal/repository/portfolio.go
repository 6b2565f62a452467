package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monateja9999/stock-trek-server/internal/models"
)

type PortfolioRepo struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

func (r *PortfolioRepo) List(ctx context.Context) ([]models.Position, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT company_ticker, company_name, quantity, total_cost, query
		 FROM portfolio ORDER BY company_ticker ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.CompanyTicker, &p.CompanyName, &p.Quantity, &p.TotalCost, &p.Query); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindByTicker returns (nil, nil) when no position is held for the ticker.
func (r *PortfolioRepo) FindByTicker(ctx context.Context, ticker string) (*models.Position, error) {
	var p models.Position
	err := r.pool.QueryRow(ctx,
		`SELECT company_ticker, company_name, quantity, total_cost, query
		 FROM portfolio WHERE company_ticker = $1`,
		ticker,
	).Scan(&p.CompanyTicker, &p.CompanyName, &p.Quantity, &p.TotalCost, &p.Query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PortfolioRepo) Insert(ctx context.Context, p models.Position) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO portfolio (company_ticker, company_name, quantity, total_cost, query)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.CompanyTicker, p.CompanyName, p.Quantity, p.TotalCost, p.Query,
	)
	return err
}

// Update overwrites every mutable field of the ticker's position.
func (r *PortfolioRepo) Update(ctx context.Context, p models.Position) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE portfolio SET company_name = $2, quantity = $3, total_cost = $4, query = $5
		 WHERE company_ticker = $1`,
		p.CompanyTicker, p.CompanyName, p.Quantity, p.TotalCost, p.Query,
	)
	return err
}

// UpdateAmounts rewrites only quantity and cost basis, as a partial
// sale does.
func (r *PortfolioRepo) UpdateAmounts(ctx context.Context, ticker, quantity, totalCost string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE portfolio SET quantity = $2, total_cost = $3 WHERE company_ticker = $1`,
		ticker, quantity, totalCost,
	)
	return err
}

func (r *PortfolioRepo) Delete(ctx context.Context, ticker string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM portfolio WHERE company_ticker = $1`, ticker,
	)
	return err
}
