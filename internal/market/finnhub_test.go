package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFinnhub(t *testing.T, handler http.HandlerFunc) (*FinnhubClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewFinnhubClient("test-token", 100, 10, nil)
	c.client.SetBaseURL(srv.URL)
	return c, srv
}

func TestFinnhubQuote_Passthrough(t *testing.T) {
	const upstream = `{"c":150.25,"h":151.0,"l":149.5,"o":150.0,"pc":149.8}`

	var gotPath, gotSymbol, gotToken string
	c, _ := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(upstream))
	})

	body, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if gotPath != "/quote" {
		t.Fatalf("path: got %q", gotPath)
	}
	if gotSymbol != "AAPL" || gotToken != "test-token" {
		t.Fatalf("query: symbol=%q token=%q", gotSymbol, gotToken)
	}
	if string(body) != upstream {
		t.Fatalf("body not relayed verbatim: %s", body)
	}
}

func TestFinnhubSearch_UsesQParam(t *testing.T) {
	var gotQ string
	c, _ := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"count":0,"result":[]}`))
	})

	if _, err := c.Search(context.Background(), "appl"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQ != "appl" {
		t.Fatalf("q: got %q", gotQ)
	}
}

func TestFinnhubUpstreamError(t *testing.T) {
	c, _ := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := c.Profile(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error on non-2xx upstream status")
	}
}

func TestFinnhubTopNews(t *testing.T) {
	articles := []NewsArticle{
		{ID: 1, Datetime: 100, Headline: "old", Image: "i", URL: "u"},
		{ID: 2, Datetime: 300, Headline: "new", Image: "i", URL: "u"},
		{ID: 3, Datetime: 200, Headline: ""}, // dropped
	}

	var gotFrom, gotTo string
	c, _ := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/company-news" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		json.NewEncoder(w).Encode(articles)
	})

	out, err := c.TopNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("TopNews: %v", err)
	}

	if gotFrom == "" || gotTo == "" {
		t.Fatal("expected from/to date range on the news request")
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 shaped articles, got %d", len(out))
	}
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("expected newest-first order, got %v then %v", out[0].ID, out[1].ID)
	}
}

func TestFinnhubTopNews_BadPayload(t *testing.T) {
	c, _ := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"not an array"}`))
	})

	if _, err := c.TopNews(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected decode error for non-array news payload")
	}
}
