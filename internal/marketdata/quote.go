package marketdata

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Allocator/internal/allocation"
)

// Quoter assembles an allocation input for a ticker from the price feed and
// the market-cap feed.
type Quoter struct {
	prices        *Binance
	caps          *CoinGecko
	directory     *Directory
	quoteCurrency string
}

func NewQuoter(prices *Binance, caps *CoinGecko, directory *Directory, quoteCurrency string) *Quoter {
	return &Quoter{
		prices:        prices,
		caps:          caps,
		directory:     directory,
		quoteCurrency: strings.ToUpper(quoteCurrency),
	}
}

func (q *Quoter) Quote(ctx context.Context, ticker string) (*allocation.Asset, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker: %w", ErrNotFound)
	}

	id, err := q.directory.Resolve(ctx, ticker)
	if err != nil {
		return nil, err
	}

	asset := &allocation.Asset{Ticker: ticker}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		price, err := q.prices.Price(gctx, ticker+q.quoteCurrency)
		if err != nil {
			return fmt.Errorf("price %s: %w", ticker, err)
		}
		asset.Price = price
		return nil
	})
	g.Go(func() error {
		mcap, err := q.caps.MarketCap(gctx, id)
		if err != nil {
			return fmt.Errorf("market cap %s: %w", id, err)
		}
		asset.MarketCap = mcap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return asset, nil
}
