package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Allocator/internal/cache"
	"github.com/MikeSquared-Agency/Allocator/internal/metrics"
)

const coinListKey = "coingecko:coins:list"

// Cached copies are kept well past their TTL so they can stand in when the
// provider is down.
const staleRetention = 7

// priorityIDs pins tickers whose symbol is shared by many listed coins.
var priorityIDs = map[string]string{
	"btc": "bitcoin",
	"eth": "ethereum",
	"xrp": "ripple",
	"sol": "solana",
}

type coinListSource interface {
	CoinList(ctx context.Context) ([]byte, error)
}

// Directory serves the coin list through a cache and resolves tickers to
// coin ids.
type Directory struct {
	source coinListSource
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

type cachedCoinList struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Coins     json.RawMessage `json:"coins"`
}

func NewDirectory(source coinListSource, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Directory {
	return &Directory{source: source, cache: c, ttl: ttl, now: time.Now, logger: logger}
}

// CoinList returns the coin list JSON, from cache while fresh. When the
// provider fails, an expired cached copy is returned if one exists.
func (d *Directory) CoinList(ctx context.Context) ([]byte, error) {
	cached, found := d.readCache(ctx)
	if found && d.now().Sub(cached.FetchedAt) < d.ttl {
		metrics.CoinListCache.WithLabelValues("hit").Inc()
		return cached.Coins, nil
	}

	body, err := d.source.CoinList(ctx)
	if err != nil {
		if found {
			metrics.CoinListCache.WithLabelValues("stale").Inc()
			d.logger.Warn("serving expired coin list", "fetched_at", cached.FetchedAt, "error", err)
			return cached.Coins, nil
		}
		return nil, err
	}
	metrics.CoinListCache.WithLabelValues("miss").Inc()

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: coin list is not valid JSON", ErrUpstreamUnavailable)
	}
	d.writeCache(ctx, cachedCoinList{FetchedAt: d.now(), Coins: body})
	return body, nil
}

func (d *Directory) readCache(ctx context.Context) (cachedCoinList, bool) {
	var entry cachedCoinList
	raw, found, err := d.cache.Get(ctx, coinListKey)
	if err != nil {
		d.logger.Warn("coin list cache read failed", "error", err)
		return entry, false
	}
	if !found {
		return entry, false
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		d.logger.Warn("discarding corrupt coin list cache entry", "error", err)
		return entry, false
	}
	return entry, true
}

func (d *Directory) writeCache(ctx context.Context, entry cachedCoinList) {
	raw, err := json.Marshal(entry)
	if err != nil {
		d.logger.Warn("coin list cache encode failed", "error", err)
		return
	}
	if err := d.cache.Set(ctx, coinListKey, raw, d.ttl*staleRetention); err != nil {
		d.logger.Warn("coin list cache write failed", "error", err)
	}
}

// Resolve maps a ticker such as "ETH" to a coin id such as "ethereum".
func (d *Directory) Resolve(ctx context.Context, ticker string) (string, error) {
	symbol := strings.ToLower(strings.TrimSpace(ticker))
	if id, ok := priorityIDs[symbol]; ok {
		return id, nil
	}

	body, err := d.CoinList(ctx)
	if err != nil {
		return "", err
	}
	var coins []Coin
	if err := json.Unmarshal(body, &coins); err != nil {
		return "", fmt.Errorf("%w: decode coin list: %v", ErrUpstreamUnavailable, err)
	}
	for _, c := range coins {
		if c.Symbol == symbol {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("ticker %s: %w", ticker, ErrNotFound)
}
