package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/monateja9999/stock-trek-server/internal/accounting"
	"github.com/monateja9999/stock-trek-server/internal/models"
	"go.uber.org/zap"
)

// memStore backs the accounting engine in handler tests.
type memStore struct {
	positions map[string]models.Position
	wallet    *models.WalletRecord
}

func (m *memStore) FindByTicker(_ context.Context, ticker string) (*models.Position, error) {
	p, ok := m.positions[ticker]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memStore) Insert(_ context.Context, p models.Position) error {
	m.positions[p.CompanyTicker] = p
	return nil
}

func (m *memStore) Update(_ context.Context, p models.Position) error {
	m.positions[p.CompanyTicker] = p
	return nil
}

func (m *memStore) UpdateAmounts(_ context.Context, ticker, quantity, totalCost string) error {
	p := m.positions[ticker]
	p.Quantity = quantity
	p.TotalCost = totalCost
	m.positions[ticker] = p
	return nil
}

func (m *memStore) Delete(_ context.Context, ticker string) error {
	delete(m.positions, ticker)
	return nil
}

func (m *memStore) Get(_ context.Context) (*models.WalletRecord, error) {
	if m.wallet == nil {
		return nil, nil
	}
	w := *m.wallet
	return &w, nil
}

func (m *memStore) SetBalance(_ context.Context, balance string) error {
	m.wallet = &models.WalletRecord{Balance: balance}
	return nil
}

func newTradeServer(balance string) (*Server, *memStore) {
	store := &memStore{positions: map[string]models.Position{}}
	if balance != "" {
		store.wallet = &models.WalletRecord{Balance: balance}
	}
	s := &Server{
		engine: accounting.NewEngine(store, store, nil, nil, nil),
		logger: zap.NewNop(),
	}
	return s, store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out["message"]
}

func TestHandlePurchase_CreatesPosition(t *testing.T) {
	s, store := newTradeServer("10000.00")

	rr := postJSON(t, s.handlePurchase, "/purchase",
		`{"companyTicker":"AAPL","companyName":"Apple Inc","quantity":10,"currentPrice":150,"query":"apple"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if msg := messageOf(t, rr); msg != "New stock added to Portfolio" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if store.wallet.Balance != "8500.00" {
		t.Fatalf("wallet: got %s", store.wallet.Balance)
	}
}

func TestHandlePurchase_UpdatesExisting(t *testing.T) {
	s, store := newTradeServer("10000.00")
	store.positions["AAPL"] = models.Position{
		CompanyTicker: "AAPL", CompanyName: "Apple Inc",
		Quantity: "10.00", TotalCost: "1500.00", Query: "apple",
	}

	rr := postJSON(t, s.handlePurchase, "/purchase",
		`{"companyTicker":"AAPL","companyName":"Apple Inc","quantity":5,"currentPrice":160}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if msg := messageOf(t, rr); msg != "Purchase successful" {
		t.Fatalf("unexpected message: %q", msg)
	}
	pos := store.positions["AAPL"]
	if pos.Quantity != "15.00" || pos.TotalCost != "2300.00" {
		t.Fatalf("position: %+v", pos)
	}
}

func TestHandlePurchase_WalletMissing(t *testing.T) {
	s, _ := newTradeServer("")

	rr := postJSON(t, s.handlePurchase, "/purchase",
		`{"companyTicker":"AAPL","companyName":"Apple Inc","quantity":1,"currentPrice":100}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if msg := messageOf(t, rr); msg != "Wallet not found" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandlePurchase_BadBody(t *testing.T) {
	s, _ := newTradeServer("1000.00")

	rr := postJSON(t, s.handlePurchase, "/purchase", `{"quantity":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleSell_Success(t *testing.T) {
	s, store := newTradeServer("8500.00")
	store.positions["AAPL"] = models.Position{
		CompanyTicker: "AAPL", CompanyName: "Apple Inc",
		Quantity: "10.00", TotalCost: "1500.00",
	}

	rr := postJSON(t, s.handleSell, "/sell",
		`{"companyTicker":"AAPL","quantity":4,"currentPrice":200}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if msg := messageOf(t, rr); msg != "Sell successful" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if store.wallet.Balance != "9300.00" {
		t.Fatalf("wallet: got %s", store.wallet.Balance)
	}
}

func TestHandleSell_UnknownTicker(t *testing.T) {
	s, _ := newTradeServer("1000.00")

	rr := postJSON(t, s.handleSell, "/sell",
		`{"companyTicker":"NVDA","quantity":1,"currentPrice":400}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if msg := messageOf(t, rr); msg != "Company ticker not found in portfolio" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandleSell_OverSell(t *testing.T) {
	s, store := newTradeServer("1000.00")
	store.positions["TSLA"] = models.Position{
		CompanyTicker: "TSLA", Quantity: "2.00", TotalCost: "500.00",
	}

	rr := postJSON(t, s.handleSell, "/sell",
		`{"companyTicker":"TSLA","quantity":5,"currentPrice":250}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if msg := messageOf(t, rr); msg != "Cannot sell more stocks than owned" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if store.wallet.Balance != "1000.00" {
		t.Fatalf("wallet changed on rejected sell: %s", store.wallet.Balance)
	}
}

func TestHandleDayChartsData_BadFetchDate(t *testing.T) {
	s := &Server{logger: zap.NewNop()}

	req := httptest.NewRequest(http.MethodGet, "/dayChartsData?searchQuery=AAPL&fetchDate=yesterday", nil)
	rr := httptest.NewRecorder()
	s.handleDayChartsData(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed fetchDate, got %d", rr.Code)
	}
}
