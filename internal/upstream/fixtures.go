package upstream

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/freema/daysync/internal/apperror"
)

//go:embed fixtures/responses.json
var fixtureData []byte

type fixtureFile struct {
	Weather map[string]Weather                `json:"weather"`
	Crypto  map[string]CryptoPrice            `json:"crypto"`
	News    map[string]map[string]interface{} `json:"news"`
}

// Fixtures is a Provider that answers from embedded test data, for running
// without API keys. Lookups that miss fall back to the first entry in key
// order.
type Fixtures struct {
	data fixtureFile
}

// NewFixtures loads the embedded fixture set.
func NewFixtures() (*Fixtures, error) {
	var data fixtureFile
	if err := json.Unmarshal(fixtureData, &data); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	return &Fixtures{data: data}, nil
}

func (f *Fixtures) Weather(_ context.Context, location string) (*Weather, error) {
	w, ok := lookup(f.data.Weather, strings.ToLower(location))
	if !ok {
		return nil, apperror.NotFound("no weather fixture for %s", location)
	}
	return &w, nil
}

func (f *Fixtures) CryptoPrice(_ context.Context, symbol string) (*CryptoPrice, error) {
	p, ok := lookup(f.data.Crypto, strings.ToUpper(symbol))
	if !ok {
		return nil, apperror.NotFound("no crypto fixture for %s", symbol)
	}
	return &p, nil
}

func (f *Fixtures) News(_ context.Context, q NewsQuery) (map[string]interface{}, error) {
	key := fmt.Sprintf("%s_%s_%s_%d", q.Category, q.Lang, q.Country, q.Max)
	n, ok := lookup(f.data.News, key)
	if !ok {
		return nil, apperror.NotFound("no news fixture for %s", key)
	}
	return n, nil
}

func (f *Fixtures) Stock(_ context.Context, symbol string) (*StockInfo, error) {
	return &StockInfo{
		Symbol:               symbol,
		LongName:             "Test Stock " + symbol,
		Timezone:             "AEST",
		ExchangeName:         "ASX",
		Gmtoffset:            36000,
		FiftyTwoWeekHigh:     100.0,
		FiftyTwoWeekLow:      80.0,
		RegularMarketDayHigh: 95.0,
		RegularMarketDayLow:  90.0,
		PreviousClose:        92.5,
		Scale:                3,
		PriceHint:            2,
	}, nil
}

func lookup[V any](m map[string]V, key string) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		var zero V
		return zero, false
	}
	sort.Strings(keys)
	return m[keys[0]], true
}
