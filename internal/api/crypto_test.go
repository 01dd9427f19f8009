package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bilalcs1781/cryptobackend/internal/clients"
)

type stubPriceClient struct {
	price  *clients.PriceData
	prices []clients.PriceData
	err    error
}

func (s *stubPriceClient) GetPrice(ctx context.Context, coinID, currency string) (*clients.PriceData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.price, nil
}

func (s *stubPriceClient) GetPrices(ctx context.Context, coinIDs []string, currency string) ([]clients.PriceData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

func newCryptoRouter(pc PriceClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/crypto/price/:coinId", GetPriceHandler(pc, nil))
	r.GET("/crypto/prices", GetPricesHandler(pc, nil))
	return r
}

func TestGetPriceHandler(t *testing.T) {
	change := 2.5
	pc := &stubPriceClient{price: &clients.PriceData{ID: "bitcoin", Currency: "USD", Price: 65000, Change24h: &change}}
	r := newCryptoRouter(pc)

	req := httptest.NewRequest(http.MethodGet, "/crypto/price/bitcoin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Price clients.PriceData `json:"price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Price.ID != "bitcoin" || resp.Price.Price != 65000 {
		t.Fatalf("unexpected price: %+v", resp.Price)
	}
}

func TestGetPriceHandlerUnknownCoin(t *testing.T) {
	pc := &stubPriceClient{err: fmt.Errorf("%w: dogecoin2", clients.ErrCoinNotFound)}
	r := newCryptoRouter(pc)

	req := httptest.NewRequest(http.MethodGet, "/crypto/price/dogecoin2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetPricesHandlerRequiresIds(t *testing.T) {
	r := newCryptoRouter(&stubPriceClient{})

	req := httptest.NewRequest(http.MethodGet, "/crypto/prices", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetPricesHandler(t *testing.T) {
	pc := &stubPriceClient{prices: []clients.PriceData{
		{ID: "bitcoin", Currency: "USD", Price: 65000},
		{ID: "ethereum", Currency: "USD", Price: 3200},
	}}
	r := newCryptoRouter(pc)

	req := httptest.NewRequest(http.MethodGet, "/crypto/prices?ids=bitcoin,ethereum", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Prices []clients.PriceData `json:"prices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(resp.Prices))
	}
}
