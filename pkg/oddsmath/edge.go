package oddsmath

import "fmt"

// EdgeAnalysis contains the value of a price against a model probability
type EdgeAnalysis struct {
	OfferedOdds        float64 // Decimal odds offered by the book
	OfferedProbability float64 // 1 / offered odds, margin included
	FairProbability    float64 // Model probability
	FairOdds           float64 // 1 / fair probability
	FairAmerican       int     // American equivalent of the fair probability
	Edge               float64 // FairProbability - OfferedProbability
	ExpectedValue      float64 // Expected profit per unit staked
	KellyFraction      float64 // Full Kelly stake as a fraction of bankroll (0 when no edge)
}

// AnalyzeEdge compares decimal odds offered by a book to a model probability
func AnalyzeEdge(offeredOdds, fairProbability float64) (*EdgeAnalysis, error) {
	offeredProb, err := DecimalToImpliedProbability(offeredOdds)
	if err != nil {
		return nil, fmt.Errorf("invalid offered odds: %w", err)
	}

	if fairProbability <= 0 || fairProbability >= 1 {
		return nil, fmt.Errorf("fair probability must be between 0 and 1, got %v", fairProbability)
	}

	fairOdds, err := ProbabilityToDecimal(fairProbability)
	if err != nil {
		return nil, err
	}

	fairAmerican, err := DecimalToAmerican(fairOdds)
	if err != nil {
		return nil, fmt.Errorf("error converting fair probability to odds: %w", err)
	}

	return &EdgeAnalysis{
		OfferedOdds:        offeredOdds,
		OfferedProbability: offeredProb,
		FairProbability:    fairProbability,
		FairOdds:           fairOdds,
		FairAmerican:       fairAmerican,
		Edge:               CalculateEdge(fairProbability, offeredProb),
		ExpectedValue:      CalculateExpectedValue(offeredOdds, fairProbability),
		KellyFraction:      CalculateKellyFraction(offeredOdds, fairProbability),
	}, nil
}

// CalculateEdge returns the probability-point edge of a model over a price
// Edge = Fair Probability - Implied Probability
//
// Example:
// Fair Probability: 50% (0.50)
// Offered Odds: 2.10 (47.6% implied)
// Edge: 0.50 - 0.476 = 0.024
func CalculateEdge(fairProbability, impliedProbability float64) float64 {
	return fairProbability - impliedProbability
}

// CalculateExpectedValue returns expected profit per unit stake
// EV = P(win) × (decimal - 1) - P(lose) × 1 = P(win) × decimal - 1
func CalculateExpectedValue(decimal, fairProbability float64) float64 {
	return fairProbability*decimal - 1.0
}

// CalculateKellyFraction returns the full Kelly stake fraction
// f* = (b×p - q) / b, with b = decimal - 1; zero when the bet has no edge
func CalculateKellyFraction(decimal, fairProbability float64) float64 {
	b := decimal - 1.0
	if b <= 0 {
		return 0
	}

	p := fairProbability
	q := 1.0 - fairProbability

	kelly := (b*p - q) / b
	if kelly <= 0 {
		return 0
	}
	return kelly
}
