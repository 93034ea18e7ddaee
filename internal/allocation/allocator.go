package allocation

// Allocate validates req and computes its capped market-cap-weighted
// allocation. The only errors returned are *ValidationError values.
func Allocate(req Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	effectiveCap := EffectiveCap(req.AssetCap, len(req.Assets))
	solution := SolveCaps(RawWeights(req.Assets), effectiveCap)

	return &Result{
		Lines:        BuildLines(solution.Weights, req.TotalCapital, req.Assets),
		Weights:      solution.Weights,
		RequestedCap: req.AssetCap,
		EffectiveCap: effectiveCap,
		Iterations:   solution.Iterations,
	}, nil
}
