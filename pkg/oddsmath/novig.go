package oddsmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RemoveVigProportional removes the overround from a market using the multiplicative method
//
// Formula:
// 1. Sum the raw implied probabilities: total = Σ p_i (the overround, typically > coverage)
// 2. Scale each side: fair_i = p_i * coverage / total
// 3. Fair probabilities now sum to coverage (1.0 for a market of mutually
//    exclusive, jointly exhaustive selections)
//
// Example:
// Side A: 1.91 (52.36% implied) | Side B: 1.91 (52.36% implied)
// Overround: 104.71% (4.71% vig)
// Fair: 50% / 50%
//
// Relative ordering between selections is preserved, and applying the method
// to an already normalized market returns the same values.
func RemoveVigProportional(probabilities []float64, coverage float64) ([]float64, error) {
	if len(probabilities) < 2 {
		return nil, fmt.Errorf("need at least 2 outcomes, got %d", len(probabilities))
	}

	if coverage <= 0 {
		return nil, fmt.Errorf("coverage must be positive, got %v", coverage)
	}

	for _, prob := range probabilities {
		if prob <= 0 || prob >= 1 || math.IsNaN(prob) {
			return nil, fmt.Errorf("all probabilities must be between 0 and 1")
		}
	}
	total := floats.Sum(probabilities)

	fair := make([]float64, len(probabilities))
	for i, prob := range probabilities {
		fair[i] = prob * coverage / total
	}

	return fair, nil
}

// RemoveVigMultiplicative removes vig from a two-way market
// Kept as the two-outcome shorthand of RemoveVigProportional
func RemoveVigMultiplicative(prob1, prob2 float64) (fair1, fair2 float64, err error) {
	fair, err := RemoveVigProportional([]float64{prob1, prob2}, 1.0)
	if err != nil {
		return 0, 0, err
	}
	return fair[0], fair[1], nil
}

// Overround returns Σ p_i - coverage; positive values are the bookmaker margin
func Overround(probabilities []float64, coverage float64) float64 {
	return floats.Sum(probabilities) - coverage
}

// CalculateVigPercentage calculates the vig (overround) percentage in a market
// Vig% = (TotalProb / coverage - 1.0) * 100
//
// Example:
// Outcome A: 52.38% | Outcome B: 52.38%
// Total: 104.76%
// Vig: 4.76%
func CalculateVigPercentage(probabilities []float64, coverage float64) (float64, error) {
	if len(probabilities) == 0 {
		return 0, fmt.Errorf("no probabilities provided")
	}
	if coverage <= 0 {
		return 0, fmt.Errorf("coverage must be positive, got %v", coverage)
	}

	for _, prob := range probabilities {
		if prob <= 0 || prob >= 1 {
			return 0, fmt.Errorf("all probabilities must be between 0 and 1")
		}
	}

	return (floats.Sum(probabilities)/coverage - 1.0) * 100.0, nil
}
