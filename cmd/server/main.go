package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monateja9999/stock-trek-server/internal/accounting"
	"github.com/monateja9999/stock-trek-server/internal/api"
	"github.com/monateja9999/stock-trek-server/internal/config"
	"github.com/monateja9999/stock-trek-server/internal/db"
	"github.com/monateja9999/stock-trek-server/internal/logger"
	"github.com/monateja9999/stock-trek-server/internal/market"
	"github.com/monateja9999/stock-trek-server/internal/notifications"
	"github.com/monateja9999/stock-trek-server/internal/repository"
	"github.com/monateja9999/stock-trek-server/internal/risk"
	"go.uber.org/zap"
)

const banner = `
╔══════════════════════════════════════╗
║        Stock Trek Server v1.0        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database: connect once at startup, fail fast if unreachable.
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DatabaseName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelBoot()
	if err := db.EnsureSchema(bootCtx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Schema bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	if err := db.SeedWallet(bootCtx, pool, cfg.InitialWalletBalance); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Wallet seed failed: %v\n", err)
		os.Exit(1)
	}

	// Repos + accounting engine
	walletRepo := repository.NewWalletRepo(pool)
	portfolioRepo := repository.NewPortfolioRepo(pool)

	guard := risk.NewGuardian(risk.Limits{
		RequireSufficientFunds: cfg.RequireSufficientFunds,
		MaxOrderValue:          cfg.MaxOrderValue,
	}, walletRepo)

	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)

	engine := accounting.NewEngine(portfolioRepo, walletRepo, guard, notify, log)

	// Upstream market-data clients
	finnhub := market.NewFinnhubClient(cfg.FinnhubAPIKey, cfg.FinnhubRateLimit, cfg.RateLimitBurst, log)
	polygon := market.NewPolygonClient(cfg.PolygonAPIKey, cfg.PolygonRateLimit, cfg.RateLimitBurst, log)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(pool, engine, finnhub, polygon, log, cfg.Port, cfg.ServerAPIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
