package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/monateja9999/stock-trek-server/internal/accounting"
	"github.com/monateja9999/stock-trek-server/internal/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type purchaseRequest struct {
	CompanyTicker string  `json:"companyTicker"`
	CompanyName   string  `json:"companyName"`
	Quantity      float64 `json:"quantity"`
	CurrentPrice  float64 `json:"currentPrice"`
	Query         string  `json:"query"`
}

type sellRequest struct {
	CompanyTicker string  `json:"companyTicker"`
	Quantity      float64 `json:"quantity"`
	CurrentPrice  float64 `json:"currentPrice"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.engine.Buy(r.Context(), accounting.BuyOrder{
		Ticker:   req.CompanyTicker,
		Name:     req.CompanyName,
		Quantity: decimal.NewFromFloat(req.Quantity),
		Price:    decimal.NewFromFloat(req.CurrentPrice),
		Query:    req.Query,
	})
	if err != nil {
		switch {
		case errors.Is(err, accounting.ErrWalletNotFound):
			writeMessage(w, http.StatusNotFound, "Wallet not found")
		case errors.Is(err, risk.ErrTradeBlocked):
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("purchase failed",
				zap.String("ticker", req.CompanyTicker), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if created {
		writeMessage(w, http.StatusCreated, "New stock added to Portfolio")
		return
	}
	writeMessage(w, http.StatusOK, "Purchase successful")
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.engine.Sell(r.Context(), accounting.SellOrder{
		Ticker:   req.CompanyTicker,
		Quantity: decimal.NewFromFloat(req.Quantity),
		Price:    decimal.NewFromFloat(req.CurrentPrice),
	})
	if err != nil {
		switch {
		case errors.Is(err, accounting.ErrPositionNotFound):
			writeMessage(w, http.StatusNotFound, "Company ticker not found in portfolio")
		case errors.Is(err, accounting.ErrWalletNotFound):
			writeMessage(w, http.StatusNotFound, "Wallet not found")
		case errors.Is(err, accounting.ErrInsufficientQuantity):
			writeMessage(w, http.StatusBadRequest, "Cannot sell more stocks than owned")
		default:
			s.logger.Error("sell failed",
				zap.String("ticker", req.CompanyTicker), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Sell successful")
}
