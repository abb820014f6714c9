package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/freema/daysync/internal/apperror"
	"github.com/freema/daysync/internal/cache"
	"github.com/freema/daysync/internal/upstream"
)

// FeedHandler serves the weather, crypto, news and stock endpoints.
type FeedHandler struct {
	provider upstream.Provider
	cache    cache.Cache
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(provider upstream.Provider, c cache.Cache) *FeedHandler {
	return &FeedHandler{provider: provider, cache: c}
}

// Weather handles GET /api/weather.
func (h *FeedHandler) Weather(w http.ResponseWriter, r *http.Request) {
	q := struct {
		Location string `validate:"required"`
	}{Location: strings.TrimSpace(r.URL.Query().Get("location"))}
	if err := validateQuery(q); err != nil {
		writeAppError(w, err)
		return
	}

	weather, err := cache.Fetch(r.Context(), h.cache, cache.Key("weather", strings.ToLower(q.Location)),
		func(ctx context.Context) (*upstream.Weather, error) {
			return h.provider.Weather(ctx, q.Location)
		})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weather)
}

// Crypto handles GET /api/crypto.
func (h *FeedHandler) Crypto(w http.ResponseWriter, r *http.Request) {
	q := struct {
		Symbol string `validate:"required"`
	}{Symbol: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))}
	if err := validateQuery(q); err != nil {
		writeAppError(w, err)
		return
	}

	price, err := cache.Fetch(r.Context(), h.cache, cache.Key("crypto", q.Symbol),
		func(ctx context.Context) (*upstream.CryptoPrice, error) {
			return h.provider.CryptoPrice(ctx, q.Symbol)
		})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// Stock handles GET /api/stock.
func (h *FeedHandler) Stock(w http.ResponseWriter, r *http.Request) {
	q := struct {
		Symbol string `validate:"required"`
	}{Symbol: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))}
	if err := validateQuery(q); err != nil {
		writeAppError(w, err)
		return
	}

	info, err := cache.Fetch(r.Context(), h.cache, cache.Key("stock", q.Symbol),
		func(ctx context.Context) (*upstream.StockInfo, error) {
			return h.provider.Stock(ctx, q.Symbol)
		})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// News handles GET /api/news.
func (h *FeedHandler) News(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := upstream.NewsQuery{
		Category: valueOr(query.Get("category"), "general"),
		Lang:     strings.ToLower(valueOr(query.Get("lang"), "en")),
		Country:  strings.ToLower(valueOr(query.Get("country"), "au")),
		Max:      10,
	}
	if v := query.Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeAppError(w, apperror.Validation("max must be an integer"))
			return
		}
		q.Max = n
	}
	if err := validateQuery(q); err != nil {
		writeAppError(w, err)
		return
	}

	key := cache.Key("news", q.Category, q.Lang, q.Country, strconv.Itoa(q.Max))
	news, err := cache.Fetch(r.Context(), h.cache, key,
		func(ctx context.Context) (map[string]interface{}, error) {
			return h.provider.News(ctx, q)
		})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
