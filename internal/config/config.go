package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Upstream API keys (from .env)
	FinnhubAPIKey string
	PolygonAPIKey string

	// Database
	ConnectionString string // full DSN, overrides the DB_* parts when set
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DatabaseName     string

	// Wallet bootstrap. Empty means never seed: a missing wallet row
	// surfaces as 404 on every trade, matching the bare deployment.
	InitialWalletBalance string

	// HTTP server
	Port            int
	ServerAPIKey    string
	CORSAllowOrigin string

	// Notifications
	WebhookURL string
	AppName    string

	// Pre-trade guards (both disabled by default: the ledger accepts
	// buys that drive the balance negative, as the product does today)
	RequireSufficientFunds bool
	MaxOrderValue          float64

	// Upstream rate limiting (requests per second + burst)
	FinnhubRateLimit float64
	PolygonRateLimit float64
	RateLimitBurst   int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		FinnhubAPIKey: envStr("API_KEY", ""),
		PolygonAPIKey: envStr("POLYGON_API_KEY", ""),

		ConnectionString: envStr("CONNECTION_STRING", ""),
		DBHost:           envStr("DB_HOST", "localhost"),
		DBPort:           envInt("DB_PORT", 5432),
		DBUser:           envStr("DB_USER", ""),
		DBPassword:       envStr("DB_PASSWORD", ""),
		DatabaseName:     envStr("DATABASE_NAME", "stock_trek"),

		InitialWalletBalance: envStr("INITIAL_WALLET_BALANCE", ""),

		Port:            envInt("PORT", 3001),
		ServerAPIKey:    envStr("SERVER_API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		WebhookURL: envStr("WEBHOOK_URL", ""),
		AppName:    envStr("APP_NAME", "StockTrek"),

		RequireSufficientFunds: envBool("REQUIRE_SUFFICIENT_FUNDS", false),
		MaxOrderValue:          envFloat("MAX_ORDER_VALUE", 0),

		FinnhubRateLimit: envFloat("FINNHUB_RATE_LIMIT", 10),
		PolygonRateLimit: envFloat("POLYGON_RATE_LIMIT", 5),
		RateLimitBurst:   envInt("RATE_LIMIT_BURST", 5),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.FinnhubAPIKey == "" {
		errs = append(errs, "API_KEY (Finnhub) is required")
	}
	if c.PolygonAPIKey == "" {
		errs = append(errs, "POLYGON_API_KEY is required")
	}
	if c.ConnectionString == "" && c.DBUser == "" {
		errs = append(errs, "CONNECTION_STRING or DB_USER is required")
	}

	if c.ServerAPIKey == "" {
		fmt.Println("[WARN] SERVER_API_KEY not set — REST API has no authentication")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — trade notifications disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Stock Trek Server Configuration ===")
	fmt.Printf("Database: %s:%d/%s\n", c.DBHost, c.DBPort, c.DatabaseName)
	if c.ConnectionString != "" {
		fmt.Println("Database: CONNECTION_STRING override in effect")
	}
	fmt.Printf("HTTP Port: %d\n", c.Port)
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Printf("Finnhub API: %s\n", boolLabel(c.FinnhubAPIKey != "", "configured", "not set"))
	fmt.Printf("Polygon API: %s\n", boolLabel(c.PolygonAPIKey != "", "configured", "not set"))
	fmt.Printf("Trade Notifications: %s\n", boolLabel(c.WebhookURL != "", "enabled", "disabled"))
	fmt.Println("---------------------------------------")
	fmt.Println("Trade Guards:")
	fmt.Printf("  Sufficient Funds Check: %v\n", c.RequireSufficientFunds)
	if c.MaxOrderValue > 0 {
		fmt.Printf("  Max Order Value: $%.2f\n", c.MaxOrderValue)
	} else {
		fmt.Println("  Max Order Value: unlimited")
	}
	fmt.Println("=======================================")
}

// DSN returns the Postgres connection string, preferring an explicit
// CONNECTION_STRING over the composed DB_* parts.
func (c *Config) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DatabaseName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
