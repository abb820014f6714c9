package upstream

import (
	"context"
	"time"
)

// Provider answers the data endpoints. Client calls the real APIs,
// Fixtures answers from embedded test data.
type Provider interface {
	Weather(ctx context.Context, location string) (*Weather, error)
	CryptoPrice(ctx context.Context, symbol string) (*CryptoPrice, error)
	News(ctx context.Context, q NewsQuery) (map[string]interface{}, error)
	Stock(ctx context.Context, symbol string) (*StockInfo, error)
}

// Weather is the current conditions at a location.
type Weather struct {
	Location      string    `json:"location"`
	Region        string    `json:"region"`
	LocalTime     string    `json:"local_time"`
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"wind_speed"`
	Precipitation float64   `json:"precipitation"`
	Humidity      float64   `json:"humidity"`
	FeelsLike     float64   `json:"feels_like"`
	UVIndex       float64   `json:"uv_index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CryptoPrice is a spot price. Timestamp is the quote time in UTC,
// formatted "02/01/06 15:04:05", so responses do not depend on the
// server's local zone.
type CryptoPrice struct {
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

// CryptoTimeLayout is the layout of CryptoPrice.Timestamp.
const CryptoTimeLayout = "02/01/06 15:04:05"

// NewsQuery selects top headlines.
type NewsQuery struct {
	Category string `validate:"required,oneof=general world nation business technology entertainment sports science health"`
	Lang     string `validate:"required,len=2,alpha"`
	Country  string `validate:"required,len=2,alpha"`
	Max      int    `validate:"min=1,max=100"`
}

// StockInfo is the quote summary for a ticker.
type StockInfo struct {
	Symbol               string  `json:"symbol"`
	LongName             string  `json:"longName"`
	Timezone             string  `json:"timezone"`
	ExchangeName         string  `json:"exchangeName"`
	Gmtoffset            int     `json:"gmtoffset"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	PreviousClose        float64 `json:"previousClose"`
	Scale                int     `json:"scale"`
	PriceHint            int     `json:"priceHint"`
}

var (
	_ Provider = (*Client)(nil)
	_ Provider = (*Fixtures)(nil)
)
