package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Allocator/internal/config"
	"github.com/MikeSquared-Agency/Allocator/internal/hermes"
)

func NewRouter(md MarketData, h hermes.Client, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware)
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	allocations := NewAllocationsHandler(h, logger)
	market := NewMarketHandler(md, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/allocations", allocations.Create)

		r.Route("/market", func(r chi.Router) {
			r.Get("/price", market.Price)
			r.Get("/coins", market.CoinList)
			r.Get("/coins/{id}", market.Coin)
			r.Get("/quote/{ticker}", market.Quote)
		})
	})

	// Paths used by the existing web client.
	r.Post("/calculate", allocations.Calculate)
	r.Get("/binance_price", market.Price)
	r.Get("/coingecko_data", market.Coin)

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
