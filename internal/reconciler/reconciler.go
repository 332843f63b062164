package reconciler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// deviations closer than this are treated as a tie
const tieEpsilon = 1e-12

// Result holds the reconciled primary outcomes and the weight changes behind them
type Result struct {
	Estimates   []models.OutcomeEstimate
	Adjustments []models.WeightAdjustment
}

// contribution is a market's value for one outcome before weighting
type contribution struct {
	outcome string
	market  string
	source  string
	value   float64
}

// Reconcile merges every market's view of the primary outcomes into one
// probability set summing to 1.
func Reconcile(catalog *models.Catalog, markets models.Markets, contradictions []models.Contradiction, opts models.Options) (*Result, error) {
	byOutcome, err := collect(catalog, markets)
	if err != nil {
		return nil, err
	}

	weights, adjustments := adjustWeights(catalog, byOutcome, contradictions, opts)

	estimates := make([]models.OutcomeEstimate, len(catalog.Outcomes))
	means := make([]float64, len(catalog.Outcomes))
	for i, outcome := range catalog.Outcomes {
		estimates[i] = estimate(catalog, outcome, byOutcome[outcome], weights)
		means[i] = estimates[i].WeightedMean
	}

	total := floats.Sum(means)
	if total <= 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("reconciled probabilities of %s sum to %v", catalog.SportKey, total)
	}
	for i := range estimates {
		estimates[i].Probability = estimates[i].WeightedMean / total
	}

	return &Result{Estimates: estimates, Adjustments: adjustments}, nil
}

// collect evaluates every outcome source whose market is present
func collect(catalog *models.Catalog, markets models.Markets) (map[string][]contribution, error) {
	byOutcome := make(map[string][]contribution, len(catalog.Outcomes))
	var missing []string

	for _, outcome := range catalog.Outcomes {
		for _, src := range catalog.SourcesFor(outcome) {
			m, ok := markets.Get(src.Expr.Market)
			if !ok {
				continue
			}
			value, err := src.Expr.Evaluate(m)
			if err != nil {
				continue
			}
			byOutcome[outcome] = append(byOutcome[outcome], contribution{
				outcome: outcome,
				market:  src.Expr.Market,
				source:  src.Expr.String(),
				value:   value,
			})
		}
		if len(byOutcome[outcome]) == 0 {
			missing = append(missing, outcome)
		}
	}

	if len(missing) > 0 {
		return nil, &models.InsufficientDataError{Sport: catalog.SportKey, Outcomes: missing}
	}
	return byOutcome, nil
}

// adjustWeights down-weights the losing side of each major contradiction
// when the uninvolved markets agree on the outcomes it touches.
func adjustWeights(catalog *models.Catalog, byOutcome map[string][]contribution, contradictions []models.Contradiction, opts models.Options) (map[string]float64, []models.WeightAdjustment) {
	weights := make(map[string]float64)
	var adjustments []models.WeightAdjustment

	for _, c := range contradictions {
		if c.Severity != models.SeverityMajor {
			continue
		}

		adj, ok := judge(catalog, byOutcome, c, opts)
		if !ok {
			continue
		}

		if adj.Market != "" {
			adj.Factor = opts.LosingWeightFactor
			if _, done := weights[adj.Market]; done {
				adj.Reason = "already down-weighted"
			} else {
				weights[adj.Market] = opts.LosingWeightFactor
				adj.Applied = true
			}
		}
		adjustments = append(adjustments, adj)
	}

	return weights, adjustments
}

// judge decides which side of a contradiction disagrees with the consensus.
// It reports false when neither side contributes to a primary outcome.
func judge(catalog *models.Catalog, byOutcome map[string][]contribution, c models.Contradiction, opts models.Options) (models.WeightAdjustment, bool) {
	adj := models.WeightAdjustment{Identity: c.Identity}

	devA, devB := -1.0, -1.0
	touched := false
	consensusSeen := false

	for _, outcome := range catalog.Outcomes {
		var sideA, sideB, others []float64
		for _, contrib := range byOutcome[outcome] {
			switch contrib.market {
			case c.MarketA:
				sideA = append(sideA, contrib.value)
			case c.MarketB:
				sideB = append(sideB, contrib.value)
			default:
				others = append(others, contrib.value)
			}
		}
		if len(sideA) == 0 && len(sideB) == 0 {
			continue
		}
		touched = true
		if len(others) == 0 {
			continue
		}

		if opts.Exceeds(floats.Max(others) - floats.Min(others)) {
			adj.Reason = fmt.Sprintf("no consensus on %s", outcome)
			return adj, true
		}
		consensusSeen = true

		mean := stat.Mean(others, nil)
		devA = math.Max(devA, maxDeviation(sideA, mean))
		devB = math.Max(devB, maxDeviation(sideB, mean))
	}

	if !touched {
		return adj, false
	}
	if !consensusSeen {
		adj.Reason = "no independent markets"
		return adj, true
	}
	adj.Consensus = true

	switch {
	case devA >= 0 && devB >= 0:
		if math.Abs(devA-devB) <= tieEpsilon {
			adj.Reason = "both sides equally far from consensus"
			return adj, true
		}
		if devA > devB {
			adj.Market = c.MarketA
		} else {
			adj.Market = c.MarketB
		}
		adj.Reason = "farther from consensus"
	case opts.Exceeds(devA):
		adj.Market = c.MarketA
		adj.Reason = "deviates from consensus"
	case opts.Exceeds(devB):
		adj.Market = c.MarketB
		adj.Reason = "deviates from consensus"
	default:
		adj.Reason = "within tolerance of consensus"
	}

	return adj, true
}

// maxDeviation returns the largest distance to mean, or -1 for no values
func maxDeviation(values []float64, mean float64) float64 {
	dev := -1.0
	for _, v := range values {
		dev = math.Max(dev, math.Abs(v-mean))
	}
	return dev
}

func estimate(catalog *models.Catalog, outcome string, contribs []contribution, weights map[string]float64) models.OutcomeEstimate {
	values := make([]float64, len(contribs))
	w := make([]float64, len(contribs))
	out := models.OutcomeEstimate{
		Outcome:       outcome,
		Contributions: make([]models.Contribution, len(contribs)),
	}

	leader := -1
	for i, c := range contribs {
		values[i] = c.value
		w[i] = weightOf(weights, c.market)
		out.Contributions[i] = models.Contribution{
			Market: c.market,
			Source: c.source,
			Value:  c.value,
			Weight: w[i],
		}

		if leader < 0 || w[i] > w[leader] ||
			(w[i] == w[leader] && catalog.MarketOrder(c.market) < catalog.MarketOrder(contribs[leader].market)) {
			leader = i
		}
	}

	out.WeightedMean = stat.Mean(values, w)
	out.StdDev = stat.PopStdDev(values, w)
	out.Min = floats.Min(values)
	out.Max = floats.Max(values)
	out.LeadingMarket = contribs[leader].market

	return out
}

func weightOf(weights map[string]float64, market string) float64 {
	if w, ok := weights[market]; ok {
		return w
	}
	return 1.0
}
