package valuation

import (
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/oddsmath"
)

// PriceLookup returns the best quoted decimal price of a selection
type PriceLookup interface {
	BestOdds(market, selection string) (float64, bool)
}

// Analyze compares each reconciled outcome to the best price offered on it
// and picks the fixture recommendation.
func Analyze(catalog *models.Catalog, prices PriceLookup, estimates []models.OutcomeEstimate, opts models.Options) ([]models.ValueResult, models.Recommendation) {
	top := topPick(estimates)

	results := make([]models.ValueResult, len(estimates))
	for i, est := range estimates {
		results[i] = value(catalog, prices, est, est.Outcome == top, opts)
	}

	return results, recommend(results)
}

// topPick returns the most likely outcome, the first in catalog order on ties
func topPick(estimates []models.OutcomeEstimate) string {
	best := -1
	for i, est := range estimates {
		if best < 0 || est.Probability > estimates[best].Probability {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return estimates[best].Outcome
}

func value(catalog *models.Catalog, prices PriceLookup, est models.OutcomeEstimate, top bool, opts models.Options) models.ValueResult {
	result := models.ValueResult{
		Outcome:    est.Outcome,
		Reconciled: est.Probability,
		TopPick:    top,
		Label:      models.LabelSkip,
	}

	if fair, err := oddsmath.ProbabilityToDecimal(est.Probability); err == nil {
		result.FairOdds = fair
		if american, err := oddsmath.DecimalToAmerican(fair); err == nil {
			result.FairAmerican = american
		}
	}

	odds, market, ok := bestDirectPrice(catalog, prices, est.Outcome)
	if !ok {
		return result
	}

	analysis, err := oddsmath.AnalyzeEdge(odds, est.Probability)
	if err != nil {
		return result
	}

	result.Quoted = true
	result.BestOdds = odds
	result.BestMarket = market
	result.Implied = analysis.OfferedProbability
	result.Edge = analysis.Edge
	result.ExpectedValue = analysis.ExpectedValue
	result.KellyFraction = analysis.KellyFraction
	result.Label = classify(result.Edge, top, opts)

	return result
}

// bestDirectPrice scans single-selection sources of an outcome for the highest price
func bestDirectPrice(catalog *models.Catalog, prices PriceLookup, outcome string) (float64, string, bool) {
	var (
		bestOdds   float64
		bestMarket string
		found      bool
	)

	for _, src := range catalog.SourcesFor(outcome) {
		if !src.Expr.Direct() {
			continue
		}
		odds, ok := prices.BestOdds(src.Expr.Market, src.Expr.Selections[0])
		if !ok {
			continue
		}
		if !found || odds > bestOdds {
			bestOdds, bestMarket, found = odds, src.Expr.Market, true
		}
	}

	return bestOdds, bestMarket, found
}

// classify labels an edge
func classify(edge float64, top bool, opts models.Options) models.Label {
	switch {
	case models.AtLeast(edge, 0) && top:
		return models.LabelBet
	case models.AtLeast(edge, opts.ValueBetThreshold):
		return models.LabelValueBet
	case models.AtLeast(edge, opts.SmallValueThreshold):
		return models.LabelSmallValue
	default:
		return models.LabelSkip
	}
}

// recommend picks the largest edge among actionable outcomes
func recommend(results []models.ValueResult) models.Recommendation {
	best := -1
	for i, r := range results {
		if r.Label == models.LabelSkip {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		current := results[best]
		if r.Edge > current.Edge || (r.Edge == current.Edge && r.Label.Rank() > current.Label.Rank()) {
			best = i
		}
	}

	if best < 0 {
		return models.Recommendation{Label: models.LabelSkip}
	}

	r := results[best]
	return models.Recommendation{
		Label:   r.Label,
		Outcome: r.Outcome,
		Market:  r.BestMarket,
		Odds:    r.BestOdds,
		Edge:    r.Edge,
	}
}
