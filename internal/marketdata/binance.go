package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Binance is a client for the spot ticker price endpoint.
type Binance struct {
	up *upstream
}

func NewBinance(baseURL string, opts Options) *Binance {
	return &Binance{up: newUpstream("binance", strings.TrimRight(baseURL, "/"), nil, opts)}
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// TickerPrice returns the upstream JSON for symbol unmodified.
func (c *Binance) TickerPrice(ctx context.Context, symbol string) ([]byte, error) {
	return c.up.get(ctx, "/api/v3/ticker/price", url.Values{"symbol": {strings.ToUpper(symbol)}})
}

// Price returns the last traded price for symbol, e.g. BTCUSDT.
func (c *Binance) Price(ctx context.Context, symbol string) (float64, error) {
	body, err := c.TickerPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}
	var tp tickerPrice
	if err := json.Unmarshal(body, &tp); err != nil {
		return 0, fmt.Errorf("%w: binance: decode price: %v", ErrUpstreamUnavailable, err)
	}
	price, err := strconv.ParseFloat(tp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: binance: parse price %q: %v", ErrUpstreamUnavailable, tp.Price, err)
	}
	return price, nil
}
