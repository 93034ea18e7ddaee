package allocation

import "math"

// remainderTolerance is the unassigned weight below which redistribution
// stops. Proportional redistribution in floating point can leave a residue
// of a few ulps that would otherwise be chased forever.
const remainderTolerance = 1e-12

// Solution is the output of SolveCaps.
type Solution struct {
	Weights    []float64
	Iterations int
}

// EffectiveCap raises assetCap to the 1/n feasibility floor. Below 1/n no
// vector can respect the cap and still sum to one, so the allocation
// degrades to equal weight instead of failing.
func EffectiveCap(assetCap float64, n int) float64 {
	if n <= 0 {
		return assetCap
	}
	return math.Max(assetCap, 1/float64(n))
}

// RawWeights returns each asset's share of the total market cap. Caps are
// scaled by the largest one before summing so that finite inputs near
// math.MaxFloat64 cannot overflow the total.
func RawWeights(assets []Asset) []float64 {
	var largest float64
	for _, a := range assets {
		largest = math.Max(largest, a.MarketCap)
	}
	weights := make([]float64, len(assets))
	if largest <= 0 {
		return weights
	}

	var total float64
	for i, a := range assets {
		weights[i] = a.MarketCap / largest
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// SolveCaps pins every weight above maxWeight to maxWeight and hands the
// freed weight to the assets still below it, in proportion to their current
// weight, until nothing is left to hand out. The result is normalized to sum
// to exactly one.
//
// An asset is eligible for redistribution only while its weight is strictly
// below maxWeight. An asset sitting exactly at the cap is pinned.
//
// raw is not modified.
func SolveCaps(raw []float64, maxWeight float64) Solution {
	n := len(raw)
	current := make([]float64, n)
	copy(current, raw)
	capped := make([]float64, n)
	eligible := make([]int, 0, n)

	iterations := 0
	for {
		iterations++

		var cappedSum float64
		for i, w := range current {
			capped[i] = math.Min(w, maxWeight)
			cappedSum += capped[i]
		}
		remainder := 1 - cappedSum

		eligible = eligible[:0]
		var eligibleSum float64
		for i, w := range current {
			if w < maxWeight && w > 0 {
				eligible = append(eligible, i)
				eligibleSum += w
			}
		}

		// Each pass pins at least one more asset or finishes, so n+1 passes
		// is only reached through floating-point residue.
		if len(eligible) == 0 || remainder <= remainderTolerance || iterations > n {
			copy(current, capped)
			break
		}

		copy(current, capped)
		for _, i := range eligible {
			current[i] = capped[i] + remainder*(capped[i]/eligibleSum)
		}
	}

	normalize(current)
	return Solution{Weights: current, Iterations: iterations}
}

func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}
