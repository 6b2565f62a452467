package api

import (
	"encoding/json"
	"net/http"

	"github.com/monateja9999/stock-trek-server/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.watchlist.List(r.Context())
	if err != nil {
		s.logger.Error("fetch watchlist failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var entry models.WatchlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.watchlist.Add(r.Context(), entry); err != nil {
		s.logger.Error("add watchlist entry failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Item added to watchlist successfully",
		"newItem": entry,
	})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("companyTicker")

	deleted, err := s.watchlist.Remove(r.Context(), ticker)
	if err != nil {
		s.logger.Error("remove watchlist entry failed",
			zap.String("ticker", ticker), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeMessage(w, http.StatusNotFound, "Item not found in watchlist")
		return
	}
	writeMessage(w, http.StatusOK, "Item deleted from watchlist successfully")
}
