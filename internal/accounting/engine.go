package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/monateja9999/stock-trek-server/internal/models"
	"github.com/monateja9999/stock-trek-server/internal/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrPositionNotFound     = errors.New("company ticker not found in portfolio")
	ErrInsufficientQuantity = errors.New("cannot sell more stocks than owned")
)

// PositionStore is the portfolio persistence the engine needs.
// *repository.PortfolioRepo satisfies it.
type PositionStore interface {
	FindByTicker(ctx context.Context, ticker string) (*models.Position, error)
	Insert(ctx context.Context, p models.Position) error
	Update(ctx context.Context, p models.Position) error
	UpdateAmounts(ctx context.Context, ticker, quantity, totalCost string) error
	Delete(ctx context.Context, ticker string) error
}

// WalletStore is the cash-balance persistence the engine needs.
// *repository.WalletRepo satisfies it.
type WalletStore interface {
	Get(ctx context.Context) (*models.WalletRecord, error)
	SetBalance(ctx context.Context, balance string) error
}

// Notifier receives a one-line message after each executed trade.
// Delivery runs on its own goroutine so a slow webhook never delays
// the trade response.
type Notifier interface {
	Send(msg string)
}

type BuyOrder struct {
	Ticker   string
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Query    string
}

type SellOrder struct {
	Ticker   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Engine applies weighted-average cost accounting to the portfolio and
// keeps the wallet balance in step with each trade. The position write
// and the wallet write are two separate statements with no transaction
// between them: a wallet failure after a position update leaves the
// position change in place.
type Engine struct {
	positions PositionStore
	wallet    WalletStore
	guard     *risk.Guardian
	notify    Notifier
	logger    *zap.Logger
}

func NewEngine(positions PositionStore, wallet WalletStore, guard *risk.Guardian, notify Notifier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		positions: positions,
		wallet:    wallet,
		guard:     guard,
		notify:    notify,
		logger:    logger,
	}
}

// Buy opens or grows the position for ord.Ticker and debits the wallet
// by quantity x price. The returned bool reports whether a new position
// was created. On an existing position the stored query is kept and the
// submitted one discarded; the create path stores the submitted query.
func (e *Engine) Buy(ctx context.Context, ord BuyOrder) (created bool, err error) {
	cost := ord.Quantity.Mul(ord.Price)

	if e.guard != nil {
		if err := e.guard.PreBuyCheck(ctx, cost); err != nil {
			return false, err
		}
	}

	pos, err := e.positions.FindByTicker(ctx, ord.Ticker)
	if err != nil {
		return false, fmt.Errorf("find position: %w", err)
	}

	if pos == nil {
		created = true
		err = e.positions.Insert(ctx, models.Position{
			CompanyTicker: ord.Ticker,
			CompanyName:   ord.Name,
			Quantity:      ord.Quantity.StringFixed(2),
			TotalCost:     cost.StringFixed(2),
			Query:         ord.Query,
		})
		if err != nil {
			return false, fmt.Errorf("insert position: %w", err)
		}
	} else {
		owned, ownedCost, err := parseAmounts(pos)
		if err != nil {
			return false, err
		}
		err = e.positions.Update(ctx, models.Position{
			CompanyTicker: pos.CompanyTicker,
			CompanyName:   pos.CompanyName,
			Quantity:      owned.Add(ord.Quantity).StringFixed(2),
			TotalCost:     ownedCost.Add(cost).StringFixed(2),
			Query:         pos.Query,
		})
		if err != nil {
			return false, fmt.Errorf("update position: %w", err)
		}
	}

	if err := e.adjustWallet(ctx, cost.Neg()); err != nil {
		return created, err
	}

	e.logger.Info("purchase executed",
		zap.String("ticker", ord.Ticker),
		zap.String("quantity", ord.Quantity.StringFixed(2)),
		zap.String("cost", cost.StringFixed(2)),
		zap.Bool("created", created),
	)
	if e.notify != nil {
		go e.notify.Send(fmt.Sprintf("BUY %s: %s shares at $%s ($%s)",
			ord.Ticker, ord.Quantity.StringFixed(2), ord.Price.StringFixed(2), cost.StringFixed(2)))
	}
	return created, nil
}

// Sell reduces the position for ord.Ticker, allocating cost basis at
// the average cost per unit, and credits the wallet by quantity x
// price. The position is deleted outright once the remaining quantity
// reaches zero or below; a negative quantity is never stored.
func (e *Engine) Sell(ctx context.Context, ord SellOrder) error {
	pos, err := e.positions.FindByTicker(ctx, ord.Ticker)
	if err != nil {
		return fmt.Errorf("find position: %w", err)
	}
	if pos == nil {
		return ErrPositionNotFound
	}

	owned, ownedCost, err := parseAmounts(pos)
	if err != nil {
		return err
	}
	if ord.Quantity.GreaterThan(owned) {
		return ErrInsufficientQuantity
	}

	// owned is non-zero while the position exists: zero-quantity
	// positions are deleted, never stored.
	avgCost := ownedCost.Div(owned)
	newCost := ownedCost.Sub(avgCost.Mul(ord.Quantity))
	newQty := owned.Sub(ord.Quantity)

	if newQty.Sign() <= 0 {
		if err := e.positions.Delete(ctx, ord.Ticker); err != nil {
			return fmt.Errorf("delete position: %w", err)
		}
	} else {
		err := e.positions.UpdateAmounts(ctx, ord.Ticker, newQty.StringFixed(2), newCost.StringFixed(2))
		if err != nil {
			return fmt.Errorf("update position: %w", err)
		}
	}

	proceeds := ord.Quantity.Mul(ord.Price)
	if err := e.adjustWallet(ctx, proceeds); err != nil {
		return err
	}

	e.logger.Info("sell executed",
		zap.String("ticker", ord.Ticker),
		zap.String("quantity", ord.Quantity.StringFixed(2)),
		zap.String("proceeds", proceeds.StringFixed(2)),
		zap.Bool("closed", newQty.Sign() <= 0),
	)
	if e.notify != nil {
		go e.notify.Send(fmt.Sprintf("SELL %s: %s shares at $%s ($%s)",
			ord.Ticker, ord.Quantity.StringFixed(2), ord.Price.StringFixed(2), proceeds.StringFixed(2)))
	}
	return nil
}

// adjustWallet re-reads the balance and applies delta to it. Absence of
// the wallet row aborts the adjustment without touching the portfolio.
func (e *Engine) adjustWallet(ctx context.Context, delta decimal.Decimal) error {
	w, err := e.wallet.Get(ctx)
	if err != nil {
		return fmt.Errorf("read wallet: %w", err)
	}
	if w == nil {
		return ErrWalletNotFound
	}

	balance, err := decimal.NewFromString(w.Balance)
	if err != nil {
		return fmt.Errorf("parse wallet balance %q: %w", w.Balance, err)
	}
	if err := e.wallet.SetBalance(ctx, balance.Add(delta).StringFixed(2)); err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return nil
}

func parseAmounts(pos *models.Position) (quantity, totalCost decimal.Decimal, err error) {
	quantity, err = decimal.NewFromString(pos.Quantity)
	if err != nil {
		return quantity, totalCost, fmt.Errorf("parse position quantity %q: %w", pos.Quantity, err)
	}
	totalCost, err = decimal.NewFromString(pos.TotalCost)
	if err != nil {
		return quantity, totalCost, fmt.Errorf("parse position cost %q: %w", pos.TotalCost, err)
	}
	return quantity, totalCost, nil
}
