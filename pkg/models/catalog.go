package models

import (
	"fmt"
	"strings"
)

// MarketDef declares a market type and its selections
type MarketDef struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Selections  []string `json:"selections"`

	// Exhaustive markets partition the outcome space and normalize to 1.0.
	// Other markets (Double Chance) must declare how many times each
	// elementary outcome is covered by their selections.
	Exhaustive bool    `json:"exhaustive"`
	Coverage   float64 `json:"coverage,omitempty"`
}

// NormalizationCoverage returns the sum normalized probabilities must reach
func (d MarketDef) NormalizationCoverage() float64 {
	if d.Exhaustive {
		return 1.0
	}
	return d.Coverage
}

// HasSelection reports whether a selection is declared on the market
func (d MarketDef) HasSelection(selection string) bool {
	for _, s := range d.Selections {
		if s == selection {
			return true
		}
	}
	return false
}

// Expr is a probability expression over the selections of one market:
//
//	sum(Selections)                  plain
//	1 - sum(Selections)              Complement
//	sum(Selections) / sum(Given)     conditional (Draw No Bet style)
type Expr struct {
	Market     string   `json:"market"`
	Selections []string `json:"selections"`
	Given      []string `json:"given,omitempty"`
	Complement bool     `json:"complement,omitempty"`
}

// P builds a plain expression
func P(market string, selections ...string) Expr {
	return Expr{Market: market, Selections: selections}
}

// NotP builds a complemented expression
func NotP(market string, selections ...string) Expr {
	return Expr{Market: market, Selections: selections, Complement: true}
}

// Within turns the expression into sum(Selections) / sum(given)
func (e Expr) Within(given ...string) Expr {
	e.Given = given
	return e
}

// Direct reports whether the expression is the price of a single selection
func (e Expr) Direct() bool {
	return len(e.Selections) == 1 && !e.Complement && len(e.Given) == 0
}

// Evaluate computes the expression against a built market
func (e Expr) Evaluate(m *Market) (float64, error) {
	if m.Key != e.Market {
		return 0, fmt.Errorf("expression over %s evaluated against %s", e.Market, m.Key)
	}

	sum, err := sumSelections(m, e.Selections)
	if err != nil {
		return 0, err
	}

	if len(e.Given) > 0 {
		denominator, err := sumSelections(m, e.Given)
		if err != nil {
			return 0, err
		}
		if denominator <= 0 {
			return 0, fmt.Errorf("conditional denominator is zero in %s", e)
		}
		sum = sum / denominator
	}

	if e.Complement {
		return 1.0 - sum, nil
	}
	return sum, nil
}

// String renders the expression, e.g. "P(1x2: Home+Draw)"
func (e Expr) String() string {
	out := fmt.Sprintf("P(%s: %s", e.Market, strings.Join(e.Selections, "+"))
	if len(e.Given) > 0 {
		out += " | " + strings.Join(e.Given, ",")
	}
	out += ")"
	if e.Complement {
		out = "1 - " + out
	}
	return out
}

func sumSelections(m *Market, selections []string) (float64, error) {
	sum := 0.0
	for _, sel := range selections {
		p, ok := m.Probability(sel)
		if !ok {
			return 0, fmt.Errorf("selection %s not present in market %s", sel, m.Key)
		}
		sum += p
	}
	return sum, nil
}

// Relation defines how the two sides of an identity must compare
type Relation string

const (
	RelationEqual  Relation = "equal"   // LHS = RHS
	RelationAtMost Relation = "at_most" // LHS <= RHS (monotonic chains)
)

// Identity is a relationship that must hold between two markets priced consistently
type Identity struct {
	Name     string   `json:"name"`
	Left     Expr     `json:"left"`
	Right    Expr     `json:"right"`
	Relation Relation `json:"relation"`
}

// Violation returns how far the identity is from holding, given both sides
func (i Identity) Violation(lhs, rhs float64) float64 {
	if i.Relation == RelationAtMost {
		if lhs > rhs {
			return lhs - rhs
		}
		return 0
	}
	if lhs > rhs {
		return lhs - rhs
	}
	return rhs - lhs
}

// OutcomeSource states that a market expression estimates a primary outcome
type OutcomeSource struct {
	Outcome string `json:"outcome"`
	Expr    Expr   `json:"expr"`
}

// Catalog is the sport-specific, read-only declaration of markets and identities
type Catalog struct {
	SportKey      string          `json:"sport_key"`
	DisplayName   string          `json:"display_name"`
	Markets       []MarketDef     `json:"markets"`
	PrimaryMarket string          `json:"primary_market"`
	Outcomes      []string        `json:"outcomes"`
	Identities    []Identity      `json:"identities"`
	Sources       []OutcomeSource `json:"sources"`
}

// Market returns the definition of a market key
func (c *Catalog) Market(key string) (MarketDef, bool) {
	for _, m := range c.Markets {
		if m.Key == key {
			return m, true
		}
	}
	return MarketDef{}, false
}

// MarketOrder returns the declaration index of a market, or -1
func (c *Catalog) MarketOrder(key string) int {
	for i, m := range c.Markets {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// SourcesFor returns the outcome sources of one outcome in declaration order
func (c *Catalog) SourcesFor(outcome string) []OutcomeSource {
	var sources []OutcomeSource
	for _, s := range c.Sources {
		if s.Outcome == outcome {
			sources = append(sources, s)
		}
	}
	return sources
}

// Validate checks that every identity and source references declared markets and selections
func (c *Catalog) Validate() error {
	if c.SportKey == "" {
		return fmt.Errorf("catalog has no sport key")
	}

	seen := make(map[string]bool, len(c.Markets))
	for _, m := range c.Markets {
		if m.Key == "" {
			return fmt.Errorf("%s: market with empty key", c.SportKey)
		}
		if seen[m.Key] {
			return fmt.Errorf("%s: market %s declared twice", c.SportKey, m.Key)
		}
		seen[m.Key] = true

		if len(m.Selections) < 2 {
			return fmt.Errorf("%s: market %s needs at least 2 selections", c.SportKey, m.Key)
		}
		if m.NormalizationCoverage() <= 0 {
			return fmt.Errorf("%s: non-exhaustive market %s must declare a coverage", c.SportKey, m.Key)
		}
	}

	primary, ok := c.Market(c.PrimaryMarket)
	if !ok {
		return fmt.Errorf("%s: primary market %s is not declared", c.SportKey, c.PrimaryMarket)
	}
	if len(c.Outcomes) < 2 {
		return fmt.Errorf("%s: primary outcome set needs at least 2 outcomes", c.SportKey)
	}
	for _, outcome := range c.Outcomes {
		if !primary.HasSelection(outcome) {
			return fmt.Errorf("%s: outcome %s is not a selection of %s", c.SportKey, outcome, c.PrimaryMarket)
		}
	}

	for _, identity := range c.Identities {
		if identity.Relation != RelationEqual && identity.Relation != RelationAtMost {
			return fmt.Errorf("%s: identity %s has unknown relation %q", c.SportKey, identity.Name, identity.Relation)
		}
		if err := c.validateExpr(identity.Left); err != nil {
			return fmt.Errorf("%s: identity %s: %w", c.SportKey, identity.Name, err)
		}
		if err := c.validateExpr(identity.Right); err != nil {
			return fmt.Errorf("%s: identity %s: %w", c.SportKey, identity.Name, err)
		}
	}

	for _, outcome := range c.Outcomes {
		if len(c.SourcesFor(outcome)) == 0 {
			return fmt.Errorf("%s: outcome %s has no source", c.SportKey, outcome)
		}
	}
	for _, source := range c.Sources {
		if !primary.HasSelection(source.Outcome) {
			return fmt.Errorf("%s: source for unknown outcome %s", c.SportKey, source.Outcome)
		}
		if err := c.validateExpr(source.Expr); err != nil {
			return fmt.Errorf("%s: source for %s: %w", c.SportKey, source.Outcome, err)
		}
	}

	return nil
}

func (c *Catalog) validateExpr(e Expr) error {
	def, ok := c.Market(e.Market)
	if !ok {
		return fmt.Errorf("market %s is not declared", e.Market)
	}
	if len(e.Selections) == 0 {
		return fmt.Errorf("expression over %s has no selections", e.Market)
	}
	for _, sel := range append(append([]string{}, e.Selections...), e.Given...) {
		if !def.HasSelection(sel) {
			return fmt.Errorf("selection %s is not declared on %s", sel, e.Market)
		}
	}
	return nil
}
