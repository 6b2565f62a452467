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

const (
	polygonBaseURL     = "https://api.polygon.io"
	dailyLookbackYears = 2
)

// PolygonClient proxies price aggregates for the chart routes.
type PolygonClient struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewPolygonClient(apiKey string, rps float64, burst int, logger *zap.Logger) *PolygonClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolygonClient{
		client:  resty.New().SetBaseURL(polygonBaseURL).SetTimeout(10 * time.Second),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// DailyAggregates returns two years of 1-day bars ending today.
func (c *PolygonClient) DailyAggregates(ctx context.Context, ticker string) (json.RawMessage, error) {
	to := time.Now().UTC()
	from := to.AddDate(-dailyLookbackYears, 0, 0)
	return c.aggregates(ctx, ticker, "day",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// HourlyAggregates returns 1-hour bars for the session ending on the
// requested date, spanning back far enough to include the previous
// session (see chartRange).
func (c *PolygonClient) HourlyAggregates(ctx context.Context, ticker string, requested time.Time) (json.RawMessage, error) {
	from, to := chartRange(requested)
	return c.aggregates(ctx, ticker, "hour", from, to)
}

func (c *PolygonClient) aggregates(ctx context.Context, ticker, timespan, from, to string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/%s/%s/%s", ticker, timespan, from, to)
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"apiKey":   c.apiKey,
		}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("polygon request %s: %w", path, err)
	}
	if resp.IsError() {
		c.logger.Warn("polygon request failed",
			zap.String("ticker", ticker),
			zap.String("timespan", timespan),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("polygon returned status %d for %s", resp.StatusCode(), path)
	}
	return json.RawMessage(resp.Body()), nil
}
