package models

// Severity tiers a contradiction by the size of the disagreement
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Contradiction is an identity that does not hold for this fixture
type Contradiction struct {
	Identity    string   `json:"identity"`
	MarketA     string   `json:"market_a"`
	MarketB     string   `json:"market_b"`
	Relation    Relation `json:"relation"`
	LHS         float64  `json:"lhs"`
	RHS         float64  `json:"rhs"`
	Difference  float64  `json:"difference"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Contribution is one market's vote for a primary outcome
type Contribution struct {
	Market string  `json:"market"`
	Source string  `json:"source"` // Rendered expression
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// WeightAdjustment records a market down-weighted for losing a major contradiction
type WeightAdjustment struct {
	Market    string  `json:"market"`
	Identity  string  `json:"identity"`
	Factor    float64 `json:"factor"`
	Consensus bool    `json:"consensus"`
	Applied   bool    `json:"applied"`
	Reason    string  `json:"reason"`
}

// OutcomeEstimate is the reconciled probability of one primary outcome
type OutcomeEstimate struct {
	Outcome       string         `json:"outcome"`
	Probability   float64        `json:"probability"`   // After renormalization
	WeightedMean  float64        `json:"weighted_mean"` // Before renormalization
	StdDev        float64        `json:"std_dev"`
	Min           float64        `json:"min"`
	Max           float64        `json:"max"`
	LeadingMarket string         `json:"leading_market"`
	Contributions []Contribution `json:"contributions"`
}

// Label classifies the value of a bet
type Label string

const (
	LabelBet        Label = "BET"
	LabelValueBet   Label = "VALUE BET"
	LabelSmallValue Label = "SMALL VALUE"
	LabelSkip       Label = "SKIP"
)

// Rank orders labels for tie-breaks; higher is stronger
func (l Label) Rank() int {
	switch l {
	case LabelBet:
		return 3
	case LabelValueBet:
		return 2
	case LabelSmallValue:
		return 1
	default:
		return 0
	}
}

// ValueResult compares the reconciled probability of an outcome to its best price
type ValueResult struct {
	Outcome       string  `json:"outcome"`
	Quoted        bool    `json:"quoted"`
	BestOdds      float64 `json:"best_odds,omitempty"`
	BestMarket    string  `json:"best_market,omitempty"`
	Implied       float64 `json:"implied_probability,omitempty"`
	Reconciled    float64 `json:"reconciled_probability"`
	Edge          float64 `json:"edge"`
	FairOdds      float64 `json:"fair_odds,omitempty"`
	FairAmerican  int     `json:"fair_american,omitempty"`
	ExpectedValue float64 `json:"expected_value"`
	KellyFraction float64 `json:"kelly_fraction"`
	TopPick       bool    `json:"top_pick"`
	Label         Label   `json:"label"`
}

// Recommendation is the fixture-level action
type Recommendation struct {
	Label   Label   `json:"label"`
	Outcome string  `json:"outcome,omitempty"`
	Market  string  `json:"market,omitempty"`
	Odds    float64 `json:"odds,omitempty"`
	Edge    float64 `json:"edge,omitempty"`
}

// Confidence summarizes how consistent the sheet was
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceGood   Confidence = "GOOD"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// AnalysisResult is the full output of one fixture analysis.
// It carries no timestamps so identical input yields identical bytes.
type AnalysisResult struct {
	Sport          string             `json:"sport"`
	Markets        Markets            `json:"markets"`
	Contradictions []Contradiction    `json:"contradictions"`
	Adjustments    []WeightAdjustment `json:"adjustments"`
	Estimates      []OutcomeEstimate  `json:"estimates"`
	Values         []ValueResult      `json:"values"`
	Recommendation Recommendation     `json:"recommendation"`
	Confidence     Confidence         `json:"confidence"`
	Warnings       []Warning          `json:"warnings"`
}

// Estimate returns the estimate of an outcome
func (r *AnalysisResult) Estimate(outcome string) (OutcomeEstimate, bool) {
	for _, e := range r.Estimates {
		if e.Outcome == outcome {
			return e, true
		}
	}
	return OutcomeEstimate{}, false
}

// Value returns the value result of an outcome
func (r *AnalysisResult) Value(outcome string) (ValueResult, bool) {
	for _, v := range r.Values {
		if v.Outcome == outcome {
			return v, true
		}
	}
	return ValueResult{}, false
}
