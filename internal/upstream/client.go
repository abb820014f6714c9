package upstream

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"go.opentelemetry.io/otel/codes"

	"github.com/freema/daysync/internal/apperror"
	"github.com/freema/daysync/internal/logger"
	"github.com/freema/daysync/internal/metrics"
	"github.com/freema/daysync/internal/tracing"
)

// Endpoints are the base URLs of the third-party APIs.
type Endpoints struct {
	Weather string
	Crypto  string
	News    string
	Stock   string
}

// DefaultEndpoints points at the production APIs.
var DefaultEndpoints = Endpoints{
	Weather: "http://api.weatherapi.com/v1/current.json",
	Crypto:  "https://api.api-ninjas.com/v1/cryptoprice",
	News:    "https://gnews.io/api/v4/top-headlines",
	Stock:   "https://query1.finance.yahoo.com/v8/finance/chart/",
}

// Keys holds the API credentials. An empty key disables that API.
type Keys struct {
	Weather   string
	APINinjas string
	GNews     string
}

// Client calls the third-party APIs.
type Client struct {
	http      *req.Client
	keys      Keys
	endpoints Endpoints
}

// NewClient creates an upstream client.
func NewClient(keys Keys, endpoints Endpoints, timeout time.Duration) *Client {
	return &Client{
		http: req.C().
			SetTimeout(timeout).
			SetUserAgent("daysync/1.0").
			SetCommonHeader("Accept", "application/json"),
		keys:      keys,
		endpoints: endpoints,
	}
}

type weatherAPIResponse struct {
	Location struct {
		Name      string `json:"name"`
		Region    string `json:"region"`
		Country   string `json:"country"`
		LocalTime string `json:"localtime"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		WindKph    float64 `json:"wind_kph"`
		PrecipMm   float64 `json:"precip_mm"`
		Humidity   float64 `json:"humidity"`
		FeelsLikeC float64 `json:"feelslike_c"`
		UV         float64 `json:"uv"`
	} `json:"current"`
}

// Weather fetches current conditions from weatherapi.com.
func (c *Client) Weather(ctx context.Context, location string) (*Weather, error) {
	if c.keys.Weather == "" {
		return nil, apperror.Internal("weather api key not configured")
	}

	var body weatherAPIResponse
	err := c.get(ctx, "weather", c.endpoints.Weather, &body, func(r *req.Request) {
		r.SetQueryParams(map[string]string{
			"key": c.keys.Weather,
			"q":   location,
			"aqi": "no",
		})
	})
	if err != nil {
		return nil, err
	}

	return &Weather{
		Location:      body.Location.Name,
		Region:        body.Location.Region,
		LocalTime:     body.Location.LocalTime,
		Temperature:   body.Current.TempC,
		WindSpeed:     body.Current.WindKph,
		Precipitation: body.Current.PrecipMm,
		Humidity:      body.Current.Humidity,
		FeelsLike:     body.Current.FeelsLikeC,
		UVIndex:       body.Current.UV,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

// CryptoPrice fetches a spot price from API Ninjas.
func (c *Client) CryptoPrice(ctx context.Context, symbol string) (*CryptoPrice, error) {
	if c.keys.APINinjas == "" {
		return nil, apperror.Internal("api ninjas key not configured")
	}

	var body struct {
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		Timestamp int64  `json:"timestamp"`
	}
	err := c.get(ctx, "crypto", c.endpoints.Crypto, &body, func(r *req.Request) {
		r.SetQueryParam("symbol", symbol).SetHeader("X-Api-Key", c.keys.APINinjas)
	})
	if err != nil {
		return nil, err
	}

	return &CryptoPrice{
		Symbol:    body.Symbol,
		Price:     body.Price,
		Timestamp: time.Unix(body.Timestamp, 0).UTC().Format(CryptoTimeLayout),
	}, nil
}

// News fetches top headlines from GNews. The response is passed through.
func (c *Client) News(ctx context.Context, q NewsQuery) (map[string]interface{}, error) {
	if c.keys.GNews == "" {
		return nil, apperror.Internal("gnews api key not configured")
	}

	var body map[string]interface{}
	err := c.get(ctx, "news", c.endpoints.News, &body, func(r *req.Request) {
		r.SetQueryParams(map[string]string{
			"category": q.Category,
			"lang":     q.Lang,
			"country":  q.Country,
			"max":      strconv.Itoa(q.Max),
			"apikey":   c.keys.GNews,
		})
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Stock fetches quote metadata from the Yahoo Finance chart API.
func (c *Client) Stock(ctx context.Context, symbol string) (*StockInfo, error) {
	var body struct {
		Chart struct {
			Result []struct {
				Meta StockInfo `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	endpoint := strings.TrimSuffix(c.endpoints.Stock, "/") + "/" + url.PathEscape(symbol)
	err := c.get(ctx, "stock", endpoint, &body, func(r *req.Request) {
		r.SetQueryParams(map[string]string{"range": "1d", "interval": "1d"})
	})
	if err != nil {
		return nil, err
	}
	if len(body.Chart.Result) == 0 {
		return nil, apperror.NotFound("no quote for symbol %s", symbol)
	}
	return &body.Chart.Result[0].Meta, nil
}

// get performs a GET against endpoint, decoding a 2xx JSON body into out.
// Any transport failure or non-2xx status becomes an upstream error.
func (c *Client) get(ctx context.Context, api, endpoint string, out interface{}, build func(*req.Request)) error {
	ctx, span := tracing.Tracer().Start(ctx, "upstream."+api, tracing.WithUpstreamAttributes(api, endpoint))
	defer span.End()

	log := logger.FromContext(ctx)
	start := time.Now()

	r := c.http.R().SetContext(ctx).SetSuccessResult(out)
	build(r)
	resp, err := r.Get(endpoint)

	metrics.UpstreamDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(api, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		log.Warn("upstream request failed", "api", api, "error", err)
		return apperror.Upstream("%s api request failed: %v", api, err)
	}
	if !resp.IsSuccessState() {
		metrics.UpstreamRequests.WithLabelValues(api, strconv.Itoa(resp.StatusCode)).Inc()
		span.SetStatus(codes.Error, resp.Status)
		log.Warn("upstream non-2xx response", "api", api, "status", resp.StatusCode)
		return apperror.Upstream("%s api returned status %d", api, resp.StatusCode)
	}

	metrics.UpstreamRequests.WithLabelValues(api, strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug("upstream request", "api", api, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
