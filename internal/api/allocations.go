package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Allocator/internal/allocation"
	"github.com/MikeSquared-Agency/Allocator/internal/hermes"
	"github.com/MikeSquared-Agency/Allocator/internal/metrics"
)

const maxRequestBytes = 1 << 20

type AllocationsHandler struct {
	hermes hermes.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewAllocationsHandler(h hermes.Client, logger *slog.Logger) *AllocationsHandler {
	return &AllocationsHandler{hermes: h, logger: logger, now: time.Now}
}

// CreateAllocationRequest also accepts the web client's older field names:
// "coins" for assets and "mcap" for market_cap.
type CreateAllocationRequest struct {
	AssetCap     float64      `json:"asset_cap"`
	TotalCapital float64      `json:"total_capital"`
	Assets       []AssetInput `json:"assets"`
	Coins        []AssetInput `json:"coins,omitempty"`
}

type AssetInput struct {
	Ticker    string  `json:"ticker"`
	MarketCap float64 `json:"market_cap"`
	MCap      float64 `json:"mcap,omitempty"`
	Price     float64 `json:"price"`
}

func (req CreateAllocationRequest) toDomain() allocation.Request {
	inputs := req.Assets
	if len(inputs) == 0 {
		inputs = req.Coins
	}
	assets := make([]allocation.Asset, len(inputs))
	for i, in := range inputs {
		mcap := in.MarketCap
		if mcap == 0 {
			mcap = in.MCap
		}
		assets[i] = allocation.Asset{Ticker: in.Ticker, MarketCap: mcap, Price: in.Price}
	}
	return allocation.Request{
		AssetCap:     req.AssetCap,
		TotalCapital: req.TotalCapital,
		Assets:       assets,
	}
}

// legacyLine is the line shape the web client reads from POST /calculate.
type legacyLine struct {
	Ticker     string  `json:"ticker"`
	Amount     float64 `json:"amount"`
	ZARValue   float64 `json:"zar_value"`
	Percentage float64 `json:"percentage"`
}

// Create handles POST /api/v1/allocations.
func (h *AllocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := h.allocate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Lines)
}

// Calculate handles POST /calculate for the web client.
func (h *AllocationsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	res, ok := h.allocate(w, r)
	if !ok {
		return
	}
	lines := make([]legacyLine, len(res.Lines))
	for i, l := range res.Lines {
		lines[i] = legacyLine{Ticker: l.Ticker, Amount: l.Amount, ZARValue: l.Value, Percentage: l.Percentage}
	}
	writeJSON(w, http.StatusOK, lines)
}

// allocate decodes and runs the request, publishes the event and sets the
// allocation id header. On failure it has already written the response.
func (h *AllocationsHandler) allocate(w http.ResponseWriter, r *http.Request) (*allocation.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.AllocationsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}

	res, err := allocation.Allocate(req.toDomain())
	if err != nil {
		var verr *allocation.ValidationError
		if errors.As(err, &verr) {
			metrics.AllocationsTotal.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}

	id := uuid.New()
	metrics.AllocationsTotal.WithLabelValues("ok").Inc()
	metrics.SolverIterations.Observe(float64(res.Iterations))
	if res.EqualWeight() {
		metrics.EqualWeightFallbacks.Inc()
	}

	if h.hermes != nil {
		evt := hermes.AllocationComputedEvent{
			AllocationID: id.String(),
			AssetCount:   len(res.Lines),
			RequestedCap: res.RequestedCap,
			EffectiveCap: res.EffectiveCap,
			EqualWeight:  res.EqualWeight(),
			Iterations:   res.Iterations,
			TotalCapital: req.TotalCapital,
			ComputedAt:   h.now().UTC(),
		}
		if err := h.hermes.Publish(hermes.SubjectAllocationComputed(evt.AllocationID), evt); err != nil {
			h.logger.Warn("failed to publish allocation event", "allocation_id", evt.AllocationID, "error", err)
		}
	}

	h.logger.Debug("allocation computed",
		"allocation_id", id.String(),
		"assets", len(res.Lines),
		"effective_cap", res.EffectiveCap,
		"iterations", res.Iterations,
	)

	w.Header().Set("X-Allocation-ID", id.String())
	return res, true
}
