package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/monateja9999/stock-trek-server/internal/models"
	"github.com/shopspring/decimal"
)

type stubWallet struct {
	record *models.WalletRecord
	err    error
}

func (s *stubWallet) Get(context.Context) (*models.WalletRecord, error) {
	return s.record, s.err
}

func TestPreBuyCheck_AllDisabled(t *testing.T) {
	g := NewGuardian(Limits{}, &stubWallet{record: &models.WalletRecord{Balance: "0.00"}})

	// With both limits off, even an order dwarfing the balance passes.
	err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(1000000))
	if err != nil {
		t.Fatalf("expected nil with all guards disabled, got %v", err)
	}
}

func TestPreBuyCheck_MaxOrderValue(t *testing.T) {
	g := NewGuardian(Limits{MaxOrderValue: 500}, nil)

	if err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(500)); err != nil {
		t.Fatalf("order at the limit should pass, got %v", err)
	}

	err := g.PreBuyCheck(context.Background(), decimal.NewFromFloat(500.01))
	if !errors.Is(err, ErrTradeBlocked) {
		t.Fatalf("expected ErrTradeBlocked above limit, got %v", err)
	}
}

func TestPreBuyCheck_SufficientFunds(t *testing.T) {
	wallet := &stubWallet{record: &models.WalletRecord{Balance: "250.00"}}
	g := NewGuardian(Limits{RequireSufficientFunds: true}, wallet)

	if err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(250)); err != nil {
		t.Fatalf("order equal to balance should pass, got %v", err)
	}

	err := g.PreBuyCheck(context.Background(), decimal.NewFromFloat(250.01))
	if !errors.Is(err, ErrTradeBlocked) {
		t.Fatalf("expected ErrTradeBlocked when underfunded, got %v", err)
	}
}

func TestPreBuyCheck_MissingWalletPasses(t *testing.T) {
	g := NewGuardian(Limits{RequireSufficientFunds: true}, &stubWallet{})

	// The wallet-missing condition belongs to the debit step, which
	// reports it as not-found; the guard stays out of the way.
	if err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("expected nil with missing wallet, got %v", err)
	}
}

func TestPreBuyCheck_WalletReadError(t *testing.T) {
	dbErr := errors.New("boom")
	g := NewGuardian(Limits{RequireSufficientFunds: true}, &stubWallet{err: dbErr})

	// A database failure is not a guard rejection: the error must not
	// carry ErrTradeBlocked so the handler reports it as internal.
	err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(10))
	if err == nil {
		t.Fatal("expected an error on failed wallet read")
	}
	if errors.Is(err, ErrTradeBlocked) {
		t.Fatalf("read failure must not map to ErrTradeBlocked: %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected the read error to be wrapped, got %v", err)
	}
}

func TestPreBuyCheck_UnparsableBalance(t *testing.T) {
	wallet := &stubWallet{record: &models.WalletRecord{Balance: "not-a-number"}}
	g := NewGuardian(Limits{RequireSufficientFunds: true}, wallet)

	err := g.PreBuyCheck(context.Background(), decimal.NewFromInt(10))
	if !errors.Is(err, ErrTradeBlocked) {
		t.Fatalf("expected ErrTradeBlocked on bad balance, got %v", err)
	}
}
