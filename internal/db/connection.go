package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return p, nil
}

// EnsureSchema creates the three tables on first run. The watchlist
// carries no uniqueness constraint: duplicate adds are accepted, only
// the ticker-keyed delete cares about identity.
func EnsureSchema(ctx context.Context, p *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS watchlist (
			id BIGSERIAL PRIMARY KEY,
			company_ticker TEXT NOT NULL,
			company_name TEXT NOT NULL,
			query TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS wallet (
			id BIGSERIAL PRIMARY KEY,
			balance TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS portfolio (
			company_ticker TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			quantity TEXT NOT NULL,
			total_cost TEXT NOT NULL,
			query TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range stmts {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedWallet inserts the singleton wallet row when the table is empty.
// A blank balance leaves the table untouched.
func SeedWallet(ctx context.Context, p *pgxpool.Pool, balance string) error {
	if balance == "" {
		return nil
	}

	var count int
	if err := p.QueryRow(ctx, `SELECT COUNT(*) FROM wallet`).Scan(&count); err != nil {
		return fmt.Errorf("count wallet rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := p.Exec(ctx, `INSERT INTO wallet (balance) VALUES ($1)`, balance); err != nil {
		return fmt.Errorf("seed wallet: %w", err)
	}
	fmt.Printf("[DB] Seeded wallet with initial balance %s\n", balance)
	return nil
}

func TestConnection(p *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var now time.Time
	err := p.QueryRow(ctx, "SELECT NOW()").Scan(&now)
	if err != nil {
		return fmt.Errorf("test query: %w", err)
	}
	fmt.Printf("[DB] Connection successful at %s\n", now.Format(time.RFC3339))
	return nil
}
