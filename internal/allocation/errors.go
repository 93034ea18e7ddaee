package allocation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidCap        = errors.New("asset cap must be in (0, 1]")
	ErrInvalidCapital    = errors.New("total capital must be positive")
	ErrEmptyAssetSet     = errors.New("at least one asset must be provided")
	ErrNonPositiveMetric = errors.New("market cap and price must be positive")
	ErrEmptyTicker       = errors.New("ticker must not be empty")
)

// ValidationError identifies the request field that failed validation.
// Kind is one of the Err* sentinels and is matched by errors.Is.
type ValidationError struct {
	Field string
	Kind  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Kind)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(field string, kind error) error {
	return &ValidationError{Field: field, Kind: kind}
}

// Validate checks a request against the contract the solver relies on.
// The first offending field is reported.
func Validate(req Request) error {
	if !finite(req.AssetCap) || req.AssetCap <= 0 || req.AssetCap > 1 {
		return invalid("asset_cap", ErrInvalidCap)
	}
	if !finite(req.TotalCapital) || req.TotalCapital <= 0 {
		return invalid("total_capital", ErrInvalidCapital)
	}
	if len(req.Assets) == 0 {
		return invalid("assets", ErrEmptyAssetSet)
	}
	for i, a := range req.Assets {
		if strings.TrimSpace(a.Ticker) == "" {
			return invalid(fmt.Sprintf("assets[%d].ticker", i), ErrEmptyTicker)
		}
		if !finite(a.MarketCap) || a.MarketCap <= 0 {
			return invalid(fmt.Sprintf("assets[%d].market_cap", i), ErrNonPositiveMetric)
		}
		if !finite(a.Price) || a.Price <= 0 {
			return invalid(fmt.Sprintf("assets[%d].price", i), ErrNonPositiveMetric)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
