package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// passthrough relays the upstream body verbatim, reporting any upstream
// or transport failure as a generic internal error.
func (s *Server) passthrough(w http.ResponseWriter, r *http.Request, what string,
	fetch func(ctx context.Context, symbol string) (json.RawMessage, error)) {

	symbol := r.URL.Query().Get("searchQuery")

	body, err := fetch(r.Context(), symbol)
	if err != nil {
		s.logger.Error("market data fetch failed",
			zap.String("route", what), zap.String("symbol", symbol), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "company", s.finnhub.Profile)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "quote", s.finnhub.Quote)
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "peers", s.finnhub.Peers)
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "autocomplete", s.finnhub.Search)
}

func (s *Server) handleInsidersData(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "insidersData", s.finnhub.InsiderSentiment)
}

func (s *Server) handleHistoricalEPSData(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "historicalEPSData", s.finnhub.Earnings)
}

func (s *Server) handleRecommendationTrends(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "recommendationTrendsData", s.finnhub.RecommendationTrends)
}

// handleTopNews is the one market route that shapes its payload: the
// client filters, sorts, and truncates before we serve the array.
func (s *Server) handleTopNews(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("searchQuery")

	articles, err := s.finnhub.TopNews(r.Context(), symbol)
	if err != nil {
		s.logger.Error("market data fetch failed",
			zap.String("route", "topNews"), zap.String("symbol", symbol), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleChartsData(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "chartsData", s.polygon.DailyAggregates)
}

func (s *Server) handleDayChartsData(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("searchQuery")

	fetchDate, err := strconv.ParseInt(r.URL.Query().Get("fetchDate"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fetchDate, expected unix seconds")
		return
	}

	body, err := s.polygon.HourlyAggregates(r.Context(), symbol, time.Unix(fetchDate, 0))
	if err != nil {
		s.logger.Error("market data fetch failed",
			zap.String("route", "dayChartsData"), zap.String("symbol", symbol), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeRaw(w, body)
}
