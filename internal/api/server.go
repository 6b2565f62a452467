package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monateja9999/stock-trek-server/internal/accounting"
	"github.com/monateja9999/stock-trek-server/internal/market"
	"github.com/monateja9999/stock-trek-server/internal/repository"
	"go.uber.org/zap"
)

type Server struct {
	pool       *pgxpool.Pool
	watchlist  *repository.WatchlistRepo
	wallet     *repository.WalletRepo
	portfolio  *repository.PortfolioRepo
	engine     *accounting.Engine
	finnhub    *market.FinnhubClient
	polygon    *market.PolygonClient
	logger     *zap.Logger
	apiKey     string
	httpServer *http.Server
}

func NewServer(pool *pgxpool.Pool, engine *accounting.Engine, finnhub *market.FinnhubClient,
	polygon *market.PolygonClient, logger *zap.Logger, port int, apiKey, corsOrigin string) *Server {

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		pool:      pool,
		watchlist: repository.NewWatchlistRepo(pool),
		wallet:    repository.NewWalletRepo(pool),
		portfolio: repository.NewPortfolioRepo(pool),
		engine:    engine,
		finnhub:   finnhub,
		polygon:   polygon,
		logger:    logger,
		apiKey:    apiKey,
	}

	mux := http.NewServeMux()

	// Root + health (no auth required)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Watchlist routes
	mux.HandleFunc("GET /watchlist", s.handleWatchlistList)
	mux.HandleFunc("POST /watchlist", s.handleWatchlistAdd)
	mux.HandleFunc("DELETE /watchlist/{companyTicker}", s.handleWatchlistRemove)

	// Wallet + portfolio routes
	mux.HandleFunc("GET /wallet", s.handleWallet)
	mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	mux.HandleFunc("POST /purchase", s.handlePurchase)
	mux.HandleFunc("POST /sell", s.handleSell)

	// Market-data passthrough routes
	mux.HandleFunc("GET /company", s.handleCompany)
	mux.HandleFunc("GET /quote", s.handleQuote)
	mux.HandleFunc("GET /topNews", s.handleTopNews)
	mux.HandleFunc("GET /peers", s.handlePeers)
	mux.HandleFunc("GET /autocomplete", s.handleAutocomplete)
	mux.HandleFunc("GET /insidersData", s.handleInsidersData)
	mux.HandleFunc("GET /historicalEPSData", s.handleHistoricalEPSData)
	mux.HandleFunc("GET /recommendationTrendsData", s.handleRecommendationTrends)
	mux.HandleFunc("GET /chartsData", s.handleChartsData)
	mux.HandleFunc("GET /dayChartsData", s.handleDayChartsData)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("REST API server started", zap.String("addr", s.httpServer.Addr))
	if s.apiKey != "" {
		s.logger.Info("API authentication enabled (Bearer token)")
	} else {
		s.logger.Warn("API authentication disabled (no SERVER_API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Stock Trek API")
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Preflight requests carry no Authorization header; the CORS
		// layer below answers them.
		if s.apiKey == "" || r.Method == http.MethodOptions ||
			r.URL.Path == "/health" || r.URL.Path == "/" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeRaw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
