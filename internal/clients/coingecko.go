package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrCoinNotFound is returned when the price API knows nothing about a coin id
var ErrCoinNotFound = errors.New("coin not found")

// PriceData is a normalized price quote for one coin
type PriceData struct {
	ID        string   `json:"id"`         // Coin id, e.g. bitcoin
	Currency  string   `json:"currency"`   // Quote currency, uppercased
	Price     float64  `json:"price"`      // Current price
	Change24h *float64 `json:"change_24h"` // 24h change percentage, nil when unavailable
	MarketCap *float64 `json:"market_cap"` // Market capitalization, nil when unavailable
}

// CoinGeckoClient handles CoinGecko API requests
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko API client
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetPrice fetches the current price for a single coin
func (c *CoinGeckoClient) GetPrice(ctx context.Context, coinID, currency string) (*PriceData, error) {
	prices, err := c.GetPrices(ctx, []string{coinID}, currency)
	if err != nil {
		return nil, err
	}
	for i := range prices {
		if prices[i].ID == coinID {
			return &prices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCoinNotFound, coinID)
}

// GetPrices fetches current prices for multiple coins in one request
func (c *CoinGeckoClient) GetPrices(ctx context.Context, coinIDs []string, currency string) ([]PriceData, error) {
	cur := strings.ToLower(currency)
	params := url.Values{}
	params.Add("ids", strings.Join(coinIDs, ","))
	params.Add("vs_currencies", cur)
	params.Add("include_24hr_change", "true")
	params.Add("include_market_cap", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call price API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API error (status %d)", resp.StatusCode)
	}

	// The API answers {"<coinId>": {"usd": 1.23, "usd_24h_change": ..., "usd_market_cap": ...}}
	var raw map[string]map[string]*float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	prices := make([]PriceData, 0, len(coinIDs))
	for _, id := range coinIDs {
		quote, ok := raw[id]
		if !ok {
			continue // Unknown ids are simply absent from the response
		}
		p := PriceData{
			ID:        id,
			Currency:  strings.ToUpper(cur),
			Change24h: quote[cur+"_24h_change"],
			MarketCap: quote[cur+"_market_cap"],
		}
		if v := quote[cur]; v != nil {
			p.Price = *v
		}
		prices = append(prices, p)
	}
	return prices, nil
}
