package crossrate

import (
	"github.com/shopspring/decimal"

	"fx-threshold-alerts/internal/fetcher"
)

// Result is the outcome of one threshold evaluation.
type Result struct {
	Inputs
	Value          decimal.Decimal
	MeetsThreshold bool
}

// Evaluate computes rate[target] / rate[comparison] and compares it to the
// threshold. The comparison is inclusive: a cross rate equal to the threshold
// meets it.
func Evaluate(table fetcher.RateTable, in Inputs) (Result, error) {
	targetRate, ok := table.Rate(in.Target)
	if !ok {
		return Result{}, &RateLookupError{Currency: in.Target, Reason: "not present in rate table"}
	}
	comparisonRate, ok := table.Rate(in.Comparison)
	if !ok {
		return Result{}, &RateLookupError{Currency: in.Comparison, Reason: "not present in rate table"}
	}
	if comparisonRate.IsZero() {
		return Result{}, &RateLookupError{Currency: in.Comparison, Reason: "rate is zero"}
	}

	cross := targetRate.Div(comparisonRate)
	return Result{
		Inputs:         in,
		Value:          cross,
		MeetsThreshold: cross.GreaterThanOrEqual(in.Threshold),
	}, nil
}
