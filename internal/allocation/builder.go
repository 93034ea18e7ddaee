package allocation

// BuildLines converts a weight vector into per-asset lines. weights must be
// index-aligned with assets and every price must be positive.
func BuildLines(weights []float64, totalCapital float64, assets []Asset) []Line {
	lines := make([]Line, len(assets))
	for i, a := range assets {
		value := totalCapital * weights[i]
		lines[i] = Line{
			Ticker:     a.Ticker,
			Amount:     value / a.Price,
			Value:      value,
			Percentage: weights[i] * 100,
		}
	}
	return lines
}
