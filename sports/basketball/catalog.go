package basketball

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// Market keys
const (
	MarketMoneyline  = "moneyline"
	MarketRegulation = "1x2"
	MarketHandicap0  = "handicap_0"
)

// Selections
const (
	Home  = "Home"
	Draw  = "Draw"
	Away  = "Away"
	Over  = "Over"
	Under = "Under"
)

// SpreadKey returns the market key of a home spread, e.g. spread_-3.5
func SpreadKey(line float64) string {
	return fmt.Sprintf("spread_%+.1f", line)
}

// TotalKey returns the market key of a game total, e.g. total_220.5
func TotalKey(line float64) string {
	return fmt.Sprintf("total_%.1f", line)
}

// HomeSpreadLadder returns every declared home spread line from deepest favourite to deepest underdog
func (c *Config) HomeSpreadLadder() []float64 {
	ladder := make([]float64, 0, 2*len(c.SpreadLines)+2)
	for i := len(c.SpreadLines) - 1; i >= 0; i-- {
		ladder = append(ladder, -c.SpreadLines[i])
	}
	ladder = append(ladder, -0.5, 0.5)
	for _, line := range c.SpreadLines {
		ladder = append(ladder, line)
	}
	return ladder
}

// BuildCatalog assembles the basketball catalog from the configuration
func BuildCatalog(cfg *Config) *models.Catalog {
	markets := []models.MarketDef{
		// Moneyline settles including overtime, so there is no draw
		{Key: MarketMoneyline, DisplayName: "Moneyline", Selections: []string{Home, Away}, Exhaustive: true},
		{Key: MarketRegulation, DisplayName: "Regulation Result (1X2)", Selections: []string{Home, Draw, Away}, Exhaustive: true},
		{Key: MarketHandicap0, DisplayName: "Handicap 0", Selections: []string{Home, Away}, Exhaustive: true},
	}
	for _, line := range cfg.HomeSpreadLadder() {
		markets = append(markets, models.MarketDef{
			Key:         SpreadKey(line),
			DisplayName: fmt.Sprintf("Spread Home %+.1f", line),
			Selections:  []string{Home, Away},
			Exhaustive:  true,
		})
	}
	for _, line := range cfg.TotalLines() {
		markets = append(markets, models.MarketDef{
			Key:         TotalKey(line),
			DisplayName: fmt.Sprintf("Total Points %.1f", line),
			Selections:  []string{Over, Under},
			Exhaustive:  true,
		})
	}

	return &models.Catalog{
		SportKey:      cfg.SportKey,
		DisplayName:   cfg.DisplayName,
		Markets:       markets,
		PrimaryMarket: MarketMoneyline,
		Outcomes:      []string{Home, Away},
		Identities:    identities(cfg),
		Sources:       sources(),
	}
}

func identities(cfg *Config) []models.Identity {
	minusHalf, plusHalf := SpreadKey(-0.5), SpreadKey(0.5)

	ids := []models.Identity{
		{Name: "moneyline_vs_handicap_0", Left: models.P(MarketMoneyline, Home), Right: models.P(MarketHandicap0, Home), Relation: models.RelationEqual},
		{Name: "moneyline_vs_spread_-0.5", Left: models.P(MarketMoneyline, Home), Right: models.P(minusHalf, Home), Relation: models.RelationEqual},
		{Name: "moneyline_vs_spread_+0.5", Left: models.P(MarketMoneyline, Home), Right: models.P(plusHalf, Home), Relation: models.RelationEqual},

		// Overtime can only turn a regulation draw into a win
		{Name: "regulation_home_at_most_moneyline", Left: models.P(MarketRegulation, Home), Right: models.P(MarketMoneyline, Home), Relation: models.RelationAtMost},
		{Name: "moneyline_at_most_regulation_home_or_draw", Left: models.P(MarketMoneyline, Home), Right: models.P(MarketRegulation, Home, Draw), Relation: models.RelationAtMost},
	}

	ladder := cfg.HomeSpreadLadder()
	for i := 0; i+1 < len(ladder); i++ {
		deeper, shallower := ladder[i], ladder[i+1]
		ids = append(ids, models.Identity{
			Name:     fmt.Sprintf("spread_chain_%+.1f_%+.1f", deeper, shallower),
			Left:     models.P(SpreadKey(deeper), Home),
			Right:    models.P(SpreadKey(shallower), Home),
			Relation: models.RelationAtMost,
		})
	}

	totals := cfg.TotalLines()
	for i := 0; i+1 < len(totals); i++ {
		lower, higher := totals[i], totals[i+1]
		ids = append(ids, models.Identity{
			Name:     fmt.Sprintf("total_chain_%.1f_%.1f", higher, lower),
			Left:     models.P(TotalKey(higher), Over),
			Right:    models.P(TotalKey(lower), Over),
			Relation: models.RelationAtMost,
		})
	}

	return ids
}

func sources() []models.OutcomeSource {
	minusHalf, plusHalf := SpreadKey(-0.5), SpreadKey(0.5)

	return []models.OutcomeSource{
		{Outcome: Home, Expr: models.P(MarketMoneyline, Home)},
		{Outcome: Away, Expr: models.P(MarketMoneyline, Away)},
		{Outcome: Home, Expr: models.P(MarketHandicap0, Home)},
		{Outcome: Away, Expr: models.P(MarketHandicap0, Away)},
		{Outcome: Home, Expr: models.P(minusHalf, Home)},
		{Outcome: Away, Expr: models.P(minusHalf, Away)},
		{Outcome: Home, Expr: models.P(plusHalf, Home)},
		{Outcome: Away, Expr: models.P(plusHalf, Away)},
	}
}
