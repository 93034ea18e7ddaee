// Package allocation computes capped, market-cap-weighted capital allocations.
//
// The computation is pure: Allocate validates a Request, derives the
// effective cap, solves the capped weight vector and converts it into
// per-asset lines. Nothing is shared between calls.
package allocation

// Asset is one constituent of an allocation request.
type Asset struct {
	Ticker    string  `json:"ticker"`
	MarketCap float64 `json:"market_cap"`
	Price     float64 `json:"price"`
}

// Request is the input to Allocate. AssetCap is a fraction in (0, 1].
type Request struct {
	AssetCap     float64 `json:"asset_cap"`
	TotalCapital float64 `json:"total_capital"`
	Assets       []Asset `json:"assets"`
}

// Line is the allocation for a single asset.
type Line struct {
	Ticker     string  `json:"ticker"`
	Amount     float64 `json:"amount"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Result holds the allocation lines in request order together with the
// solver details that produced them.
type Result struct {
	Lines        []Line
	Weights      []float64
	RequestedCap float64
	EffectiveCap float64
	Iterations   int
}

// EqualWeight reports whether the requested cap was infeasible and the
// allocation fell back to the 1/n floor.
func (r *Result) EqualWeight() bool {
	return r.EffectiveCap > r.RequestedCap
}
