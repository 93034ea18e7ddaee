package hermes

import "time"

type AllocationComputedEvent struct {
	AllocationID string    `json:"allocation_id"`
	AssetCount   int       `json:"asset_count"`
	RequestedCap float64   `json:"requested_cap"`
	EffectiveCap float64   `json:"effective_cap"`
	EqualWeight  bool      `json:"equal_weight"`
	Iterations   int       `json:"iterations"`
	TotalCapital float64   `json:"total_capital"`
	ComputedAt   time.Time `json:"computed_at"`
}
