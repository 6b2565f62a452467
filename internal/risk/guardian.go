package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/monateja9999/stock-trek-server/internal/models"
	"github.com/shopspring/decimal"
)

// ErrTradeBlocked marks any guard rejection so the handler boundary can
// map it to an invalid-request response.
var ErrTradeBlocked = errors.New("trade blocked")

// BalanceReader abstracts the wallet lookup so Guardian can be tested
// without a real database.
type BalanceReader interface {
	Get(ctx context.Context) (*models.WalletRecord, error)
}

// Limits holds the pre-trade thresholds from config. Both zero values
// disable their check, which keeps the historical behavior where a buy
// may drive the wallet balance negative.
type Limits struct {
	RequireSufficientFunds bool
	MaxOrderValue          float64
}

type Guardian struct {
	limits Limits
	wallet BalanceReader
}

func NewGuardian(limits Limits, wallet BalanceReader) *Guardian {
	return &Guardian{limits: limits, wallet: wallet}
}

// PreBuyCheck validates a purchase before any record is written.
// Returns nil if the buy is allowed, an ErrTradeBlocked-wrapped error
// if a guard rejects it.
func (g *Guardian) PreBuyCheck(ctx context.Context, orderValue decimal.Decimal) error {
	if g.limits.MaxOrderValue > 0 {
		max := decimal.NewFromFloat(g.limits.MaxOrderValue)
		if orderValue.GreaterThan(max) {
			return fmt.Errorf("%w: order value $%s exceeds max $%s",
				ErrTradeBlocked, orderValue.StringFixed(2), max.StringFixed(2))
		}
	}

	if g.limits.RequireSufficientFunds && g.wallet != nil {
		// A failed read is a database error, not a rejection: it must
		// surface as an internal failure at the handler boundary.
		w, err := g.wallet.Get(ctx)
		if err != nil {
			return fmt.Errorf("verify wallet balance: %w", err)
		}
		if w == nil {
			// A missing wallet is reported by the debit step, not here.
			return nil
		}
		balance, err := decimal.NewFromString(w.Balance)
		if err != nil {
			return fmt.Errorf("%w: unreadable wallet balance %q", ErrTradeBlocked, w.Balance)
		}
		if orderValue.GreaterThan(balance) {
			return fmt.Errorf("%w: insufficient funds, balance $%s, order $%s",
				ErrTradeBlocked, balance.StringFixed(2), orderValue.StringFixed(2))
		}
	}

	return nil
}
