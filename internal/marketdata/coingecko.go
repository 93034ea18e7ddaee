package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// CoinGecko is a client for the coin detail and coin list endpoints.
type CoinGecko struct {
	up *upstream
}

func NewCoinGecko(baseURL, apiKey string, opts Options) *CoinGecko {
	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": apiKey}
	}
	return &CoinGecko{up: newUpstream("coingecko", strings.TrimRight(baseURL, "/"), headers, opts)}
}

// Coin is an entry of the coin list.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type coinDetail struct {
	MarketData struct {
		MarketCap map[string]float64 `json:"market_cap"`
	} `json:"market_data"`
}

var coinDetailQuery = url.Values{
	"localization":   {"false"},
	"tickers":        {"false"},
	"community_data": {"false"},
	"developer_data": {"false"},
}

// CoinData returns the upstream JSON for a coin id unmodified.
func (c *CoinGecko) CoinData(ctx context.Context, id string) ([]byte, error) {
	return c.up.get(ctx, "/api/v3/coins/"+url.PathEscape(id), coinDetailQuery)
}

// MarketCap returns the USD market capitalization of a coin.
func (c *CoinGecko) MarketCap(ctx context.Context, id string) (float64, error) {
	body, err := c.CoinData(ctx, id)
	if err != nil {
		return 0, err
	}
	var detail coinDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return 0, fmt.Errorf("%w: coingecko: decode %s: %v", ErrUpstreamUnavailable, id, err)
	}
	mcap, ok := detail.MarketData.MarketCap["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko: %s has no usd market cap: %w", id, ErrNotFound)
	}
	return mcap, nil
}

// CoinList returns the upstream JSON of the full coin list unmodified.
func (c *CoinGecko) CoinList(ctx context.Context) ([]byte, error) {
	return c.up.get(ctx, "/api/v3/coins/list", nil)
}
