package crossrate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"fx-threshold-alerts/internal/config"
)

const codeLength = 3

// Inputs are the validated parameters of one check cycle.
type Inputs struct {
	Threshold  decimal.Decimal
	Target     string
	Comparison string
}

// Pair renders the inputs as "TGT/CMP".
func (in Inputs) Pair() string {
	return in.Target + "/" + in.Comparison
}

// ValidateInputs parses the raw check configuration. Every failure is a
// *ConfigError.
func ValidateInputs(cfg config.CheckConfig) (Inputs, error) {
	rawThreshold := strings.TrimSpace(cfg.ThresholdRate)
	target := strings.ToUpper(strings.TrimSpace(cfg.TargetCurrency))
	comparison := strings.ToUpper(strings.TrimSpace(cfg.ComparisonCurrency))

	switch {
	case rawThreshold == "":
		return Inputs{}, &ConfigError{Field: "THRESHOLD_RATE", Reason: "is required"}
	case target == "":
		return Inputs{}, &ConfigError{Field: "TARGET_CURRENCY", Reason: "is required"}
	case comparison == "":
		return Inputs{}, &ConfigError{Field: "COMPARISON_CURRENCY", Reason: "is required"}
	}

	if utf8.RuneCountInString(target) != codeLength {
		return Inputs{}, &ConfigError{Field: "TARGET_CURRENCY", Reason: fmt.Sprintf("must be exactly 3 characters, got %q", target)}
	}
	if utf8.RuneCountInString(comparison) != codeLength {
		return Inputs{}, &ConfigError{Field: "COMPARISON_CURRENCY", Reason: fmt.Sprintf("must be exactly 3 characters, got %q", comparison)}
	}

	threshold, err := decimal.NewFromString(rawThreshold)
	if err != nil {
		return Inputs{}, &ConfigError{Field: "THRESHOLD_RATE", Reason: "must be a number", Err: err}
	}
	if threshold.IsNegative() {
		return Inputs{}, &ConfigError{Field: "THRESHOLD_RATE", Reason: "should be a positive number"}
	}

	return Inputs{Threshold: threshold, Target: target, Comparison: comparison}, nil
}
