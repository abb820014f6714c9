package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freema/daysync/internal/apperror"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(
		Keys{Weather: "wk", APINinjas: "nk", GNews: "gk"},
		Endpoints{
			Weather: srv.URL + "/weather",
			Crypto:  srv.URL + "/crypto",
			News:    srv.URL + "/news",
			Stock:   srv.URL + "/chart/",
		},
		5*time.Second,
	)
}

func TestClient_Weather(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/weather" || q.Get("key") != "wk" || q.Get("q") != "Sydney" || q.Get("aqi") != "no" {
			t.Errorf("unexpected request %s", r.URL)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"location": map[string]interface{}{"name": "Sydney", "region": "New South Wales", "localtime": "2025-03-02 16:00"},
			"current":  map[string]interface{}{"temp_c": 24.2, "wind_kph": 20.5, "precip_mm": 0.3, "humidity": 58, "feelslike_c": 25.0, "uv": 7},
		})
	})

	got, err := c.Weather(context.Background(), "Sydney")
	if err != nil {
		t.Fatalf("Weather: %v", err)
	}
	if got.Location != "Sydney" || got.Temperature != 24.2 || got.Humidity != 58 || got.UVIndex != 7 {
		t.Fatalf("unexpected weather %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}
}

func TestClient_CryptoPrice(t *testing.T) {
	local := time.Local
	time.Local = time.FixedZone("AEST", 10*60*60)
	t.Cleanup(func() { time.Local = local })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "nk" {
			t.Errorf("missing api key header")
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"symbol": "BTCUSDT", "price": "86234.51", "timestamp": 1740891600,
		})
	})

	got, err := c.CryptoPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("CryptoPrice: %v", err)
	}
	if got.Timestamp != "02/03/25 05:00:00" {
		t.Fatalf("timestamp = %q", got.Timestamp)
	}
	if got.Price != "86234.51" {
		t.Fatalf("price = %q", got.Price)
	}
}

func TestClient_News(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "sports" || q.Get("max") != "3" || q.Get("apikey") != "gk" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"totalArticles": 3, "articles": []interface{}{}})
	})

	got, err := c.News(context.Background(), NewsQuery{Category: "sports", Lang: "en", Country: "au", Max: 3})
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if got["totalArticles"] != float64(3) {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestClient_Stock(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/CBA.AX" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"chart": map[string]interface{}{
				"result": []interface{}{
					map[string]interface{}{"meta": map[string]interface{}{
						"symbol": "CBA.AX", "exchangeName": "ASX", "previousClose": 152.3, "priceHint": 2,
					}},
				},
			},
		})
	})

	got, err := c.Stock(context.Background(), "CBA.AX")
	if err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if got.Symbol != "CBA.AX" || got.ExchangeName != "ASX" || got.PreviousClose != 152.3 {
		t.Fatalf("unexpected stock %+v", got)
	}
}

func TestClient_StockNoResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"chart": map[string]interface{}{"result": []interface{}{}}})
	})

	if _, err := c.Stock(context.Background(), "NOPE"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_UpstreamFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "down"})
	})

	_, err := c.Weather(context.Background(), "Sydney")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if apperror.HTTPStatus(err) != http.StatusBadGateway {
		t.Fatalf("status = %d", apperror.HTTPStatus(err))
	}
}

func TestClient_MissingKeys(t *testing.T) {
	c := NewClient(Keys{}, DefaultEndpoints, time.Second)
	ctx := context.Background()

	if _, err := c.Weather(ctx, "x"); !errors.Is(err, apperror.ErrInternal) {
		t.Errorf("weather: expected internal error, got %v", err)
	}
	if _, err := c.CryptoPrice(ctx, "x"); !errors.Is(err, apperror.ErrInternal) {
		t.Errorf("crypto: expected internal error, got %v", err)
	}
	if _, err := c.News(ctx, NewsQuery{}); !errors.Is(err, apperror.ErrInternal) {
		t.Errorf("news: expected internal error, got %v", err)
	}
}

func TestFixtures(t *testing.T) {
	f, err := NewFixtures()
	if err != nil {
		t.Fatalf("NewFixtures: %v", err)
	}
	ctx := context.Background()

	w, err := f.Weather(ctx, "SYDNEY")
	if err != nil || w.Location != "Sydney" {
		t.Fatalf("Weather = %+v, %v", w, err)
	}
	// unknown locations fall back to the first fixture in key order
	w, _ = f.Weather(ctx, "Hobart")
	if w.Location != "Brisbane" {
		t.Fatalf("fallback weather = %s", w.Location)
	}

	p, err := f.CryptoPrice(ctx, "eth")
	if err != nil || p.Symbol != "ETHUSDT" {
		t.Fatalf("CryptoPrice = %+v, %v", p, err)
	}

	n, err := f.News(ctx, NewsQuery{Category: "technology", Lang: "en", Country: "us", Max: 5})
	if err != nil || n["totalArticles"] != float64(1) {
		t.Fatalf("News = %v, %v", n, err)
	}

	s, _ := f.Stock(ctx, "BHP.AX")
	if s.Symbol != "BHP.AX" || s.LongName != "Test Stock BHP.AX" {
		t.Fatalf("Stock = %+v", s)
	}
}

func TestLookup_Empty(t *testing.T) {
	if _, ok := lookup(map[string]int{}, "x"); ok {
		t.Fatal("empty map should miss")
	}
}
