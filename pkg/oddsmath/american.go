package oddsmath

import (
	"fmt"
	"math"
)

// InvalidOddsError reports a quoted price that cannot be turned into a probability
type InvalidOddsError struct {
	Odds   float64
	Raw    string // Set when the price was not a number at all
	Reason string
}

func (e *InvalidOddsError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("invalid odds %q: %s", e.Raw, e.Reason)
	}
	return fmt.Sprintf("invalid decimal odds %v: %s", e.Odds, e.Reason)
}

// ValidateDecimal checks that decimal odds are a finite number greater than 1.0
func ValidateDecimal(decimal float64) error {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return &InvalidOddsError{Odds: decimal, Reason: "not a finite number"}
	}
	if decimal <= 1.0 {
		return &InvalidOddsError{Odds: decimal, Reason: "must be > 1.0"}
	}
	return nil
}

// DecimalToImpliedProbability converts decimal odds to raw implied probability
// Decimal 2.00 → 0.50 (50%)
// Decimal 1.50 → 0.667 (66.7%)
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if err := ValidateDecimal(decimal); err != nil {
		return 0, err
	}

	return 1.0 / decimal, nil
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > -100 && american < 100 {
		return 0, fmt.Errorf("invalid American odds %d: magnitude must be >= 100", american)
	}

	if american > 0 {
		// Positive odds: (american / 100) + 1
		return (float64(american) / 100.0) + 1.0, nil
	}

	// Negative odds: (100 / abs(american)) + 1
	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, error) {
	if err := ValidateDecimal(decimal); err != nil {
		return 0, err
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ProbabilityToDecimal converts a probability to fair decimal odds
// 0.50 (50%) → Decimal 2.00
func ProbabilityToDecimal(probability float64) (float64, error) {
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("invalid probability %v: must be between 0 and 1", probability)
	}

	return 1.0 / probability, nil
}

// ProbabilityToAmerican converts probability directly to American odds
// Convenience function that combines ProbabilityToDecimal + DecimalToAmerican
func ProbabilityToAmerican(probability float64) (int, error) {
	decimal, err := ProbabilityToDecimal(probability)
	if err != nil {
		return 0, err
	}

	return DecimalToAmerican(decimal)
}
