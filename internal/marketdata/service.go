package marketdata

import (
	"context"
	"log/slog"

	"github.com/MikeSquared-Agency/Allocator/internal/allocation"
	"github.com/MikeSquared-Agency/Allocator/internal/cache"
	"github.com/MikeSquared-Agency/Allocator/internal/config"
)

// Service bundles the market data operations exposed over HTTP.
type Service struct {
	binance   *Binance
	coingecko *CoinGecko
	directory *Directory
	quoter    *Quoter
}

func NewService(cfg config.MarketDataConfig, c cache.Cache, logger *slog.Logger) *Service {
	opts := Options{
		Timeout:           cfg.UpstreamTimeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger,
	}
	binance := NewBinance(cfg.BinanceURL, opts)
	coingecko := NewCoinGecko(cfg.CoinGeckoURL, cfg.CoinGeckoAPIKey, opts)
	directory := NewDirectory(coingecko, c, cfg.CoinListTTL(), logger)

	return &Service{
		binance:   binance,
		coingecko: coingecko,
		directory: directory,
		quoter:    NewQuoter(binance, coingecko, directory, cfg.QuoteCurrency),
	}
}

func (s *Service) TickerPrice(ctx context.Context, symbol string) ([]byte, error) {
	return s.binance.TickerPrice(ctx, symbol)
}

func (s *Service) CoinData(ctx context.Context, id string) ([]byte, error) {
	return s.coingecko.CoinData(ctx, id)
}

func (s *Service) CoinList(ctx context.Context) ([]byte, error) {
	return s.directory.CoinList(ctx)
}

func (s *Service) Quote(ctx context.Context, ticker string) (*allocation.Asset, error) {
	return s.quoter.Quote(ctx, ticker)
}
