package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubClient proxies company fundamentals, quotes, and news. Bodies
// are relayed verbatim: the server never reshapes provider JSON except
// for the top-news route.
type FinnhubClient struct {
	client  *resty.Client
	token   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewFinnhubClient(token string, rps float64, burst int, logger *zap.Logger) *FinnhubClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinnhubClient{
		client:  resty.New().SetBaseURL(finnhubBaseURL).SetTimeout(10 * time.Second),
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

func (c *FinnhubClient) get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("token", c.token).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("finnhub request %s: %w", path, err)
	}
	if resp.IsError() {
		c.logger.Warn("finnhub request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("finnhub returned status %d for %s", resp.StatusCode(), path)
	}
	return json.RawMessage(resp.Body()), nil
}

// Profile returns the company profile for the symbol.
func (c *FinnhubClient) Profile(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/stock/profile2", map[string]string{"symbol": symbol})
}

// Quote returns the current quote for the symbol.
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/quote", map[string]string{"symbol": symbol})
}

// Peers returns tickers in the same industry as the symbol.
func (c *FinnhubClient) Peers(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/stock/peers", map[string]string{"symbol": symbol})
}

// Search returns symbol-lookup matches for a free-text query.
func (c *FinnhubClient) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return c.get(ctx, "/search", map[string]string{"q": query})
}

// InsiderSentiment returns insider buy/sell sentiment for the symbol.
func (c *FinnhubClient) InsiderSentiment(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/stock/insider-sentiment", map[string]string{"symbol": symbol})
}

// Earnings returns historical EPS surprises for the symbol.
func (c *FinnhubClient) Earnings(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/stock/earnings", map[string]string{"symbol": symbol})
}

// RecommendationTrends returns analyst recommendation counts for the symbol.
func (c *FinnhubClient) RecommendationTrends(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/stock/recommendation", map[string]string{"symbol": symbol})
}
