package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Allocator/internal/allocation"
	"github.com/MikeSquared-Agency/Allocator/internal/marketdata"
)

// MarketData is the read-only market data surface proxied by the API.
type MarketData interface {
	TickerPrice(ctx context.Context, symbol string) ([]byte, error)
	CoinData(ctx context.Context, id string) ([]byte, error)
	CoinList(ctx context.Context) ([]byte, error)
	Quote(ctx context.Context, ticker string) (*allocation.Asset, error)
}

type MarketHandler struct {
	md     MarketData
	logger *slog.Logger
}

func NewMarketHandler(md MarketData, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{md: md, logger: logger}
}

// Price handles GET /api/v1/market/price?symbol= and GET /binance_price.
func (h *MarketHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbol required"})
		return
	}
	body, err := h.md.TickerPrice(r.Context(), symbol)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// Coin handles GET /api/v1/market/coins/{id} and GET /coingecko_data?coin_gecko_id=.
func (h *MarketHandler) Coin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("coin_gecko_id")
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "coin id required"})
		return
	}
	body, err := h.md.CoinData(r.Context(), id)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// CoinList handles GET /api/v1/market/coins.
func (h *MarketHandler) CoinList(w http.ResponseWriter, r *http.Request) {
	body, err := h.md.CoinList(r.Context())
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// Quote handles GET /api/v1/market/quote/{ticker}.
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	asset, err := h.md.Quote(r.Context(), ticker)
	if errors.Is(err, marketdata.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticker not found"})
		return
	}
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *MarketHandler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("upstream request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
}
