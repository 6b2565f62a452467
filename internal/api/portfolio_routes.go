package api

import (
	"net/http"

	"github.com/monateja9999/stock-trek-server/internal/models"
	"go.uber.org/zap"
)

// handleWallet serves the wallet as an array, the collection dump shape
// the frontend expects. A missing wallet row yields an empty array.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	record, err := s.wallet.Get(r.Context())
	if err != nil {
		s.logger.Error("fetch wallet failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := []models.WalletRecord{}
	if record != nil {
		out = append(out, *record)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	positions, err := s.portfolio.List(r.Context())
	if err != nil {
		s.logger.Error("fetch portfolio failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if positions == nil {
		positions = []models.Position{}
	}
	writeJSON(w, http.StatusOK, positions)
}
