package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ids") != "bitcoin,ethereum" {
			t.Errorf("unexpected ids %q", q.Get("ids"))
		}
		if q.Get("vs_currencies") != "usd" {
			t.Errorf("unexpected vs_currencies %q", q.Get("vs_currencies"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 65000.5, "usd_24h_change": 2.1, "usd_market_cap": 1280000000000},
			"ethereum": {"usd": 3200}
		}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL)
	prices, err := c.GetPrices(context.Background(), []string{"bitcoin", "ethereum"}, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	btc := prices[0]
	if btc.ID != "bitcoin" || btc.Price != 65000.5 || btc.Currency != "USD" {
		t.Fatalf("unexpected bitcoin quote: %+v", btc)
	}
	if btc.Change24h == nil || *btc.Change24h != 2.1 {
		t.Fatalf("expected 24h change 2.1, got %v", btc.Change24h)
	}
	eth := prices[1]
	if eth.Change24h != nil || eth.MarketCap != nil {
		t.Fatalf("expected nil change/cap when absent, got %+v", eth)
	}
}

func TestGetPriceUnknownCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL)
	_, err := c.GetPrice(context.Background(), "nocoin", "usd")
	if !errors.Is(err, ErrCoinNotFound) {
		t.Fatalf("expected ErrCoinNotFound, got %v", err)
	}
}

func TestGetPricesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL)
	if _, err := c.GetPrices(context.Background(), []string{"bitcoin"}, "usd"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
