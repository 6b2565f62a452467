package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	newsLookbackDays = 30
	topNewsLimit     = 20
)

type NewsArticle struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// TopNews fetches the last 30 days of company news and returns the 20
// most recent presentable articles, newest first.
func (c *FinnhubClient) TopNews(ctx context.Context, symbol string) ([]NewsArticle, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -newsLookbackDays)

	raw, err := c.get(ctx, "/company-news", map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	var articles []NewsArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("decode company news: %w", err)
	}
	return shapeNews(articles), nil
}

// shapeNews drops articles missing an image, link, or headline, orders
// the rest newest-first, and truncates to the 20 most recent. The
// result is never nil so the route always serves a JSON array.
func shapeNews(articles []NewsArticle) []NewsArticle {
	shaped := make([]NewsArticle, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.Image) == "" ||
			strings.TrimSpace(a.URL) == "" ||
			strings.TrimSpace(a.Headline) == "" {
			continue
		}
		shaped = append(shaped, a)
	}

	sort.SliceStable(shaped, func(i, j int) bool {
		return shaped[i].Datetime > shaped[j].Datetime
	})

	if len(shaped) > topNewsLimit {
		shaped = shaped[:topNewsLimit]
	}
	return shaped
}
