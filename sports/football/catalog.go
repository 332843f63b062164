package football

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// Market keys
const (
	Market1X2          = "1x2"
	MarketDoubleChance = "double_chance"
	MarketDrawNoBet    = "draw_no_bet"
	MarketHomeNoBet    = "home_no_bet"
	MarketAwayNoBet    = "away_no_bet"
	MarketEuroHcp01    = "european_handicap_0:1"
	MarketBTTS         = "btts"
	MarketTeamsToScore = "teams_to_score"
)

// Selections
const (
	Home = "Home"
	Draw = "Draw"
	Away = "Away"

	HomeOrDraw = "1X"
	DrawOrAway = "X2"
	HomeOrAway = "12"

	Yes = "Yes"
	No  = "No"

	Over  = "Over"
	Under = "Under"

	NoneScore = "None"
	OnlyHome  = "Only Home"
	OnlyAway  = "Only Away"
	BothScore = "Both"
)

// AsianHandicapKey returns the market key of a home Asian handicap line
func AsianHandicapKey(line string) string {
	return "asian_handicap_" + line
}

// OverUnderKey returns the market key of a goal line
func OverUnderKey(line float64) string {
	return fmt.Sprintf("over_under_%.1f", line)
}

// BuildCatalog assembles the football catalog from the configuration
func BuildCatalog(cfg *Config) *models.Catalog {
	ah0 := AsianHandicapKey("0")

	markets := []models.MarketDef{
		{Key: Market1X2, DisplayName: "Match Result (1X2)", Selections: []string{Home, Draw, Away}, Exhaustive: true},
		// Each elementary result appears in exactly two selections
		{Key: MarketDoubleChance, DisplayName: "Double Chance", Selections: []string{HomeOrDraw, DrawOrAway, HomeOrAway}, Coverage: 2},
		{Key: MarketDrawNoBet, DisplayName: "Draw No Bet", Selections: []string{Home, Away}, Exhaustive: true},
		{Key: MarketHomeNoBet, DisplayName: "Home No Bet", Selections: []string{Draw, Away}, Exhaustive: true},
		{Key: MarketAwayNoBet, DisplayName: "Away No Bet", Selections: []string{Home, Draw}, Exhaustive: true},
		{Key: ah0, DisplayName: "Asian Handicap 0", Selections: []string{Home, Away}, Exhaustive: true},
	}
	for _, line := range cfg.AsianHandicapLines {
		markets = append(markets, models.MarketDef{
			Key:         AsianHandicapKey(line),
			DisplayName: "Asian Handicap " + line,
			Selections:  []string{Home, Away},
			Exhaustive:  true,
		})
	}
	markets = append(markets,
		models.MarketDef{Key: MarketEuroHcp01, DisplayName: "European Handicap 0:1", Selections: []string{Home, Draw, Away}, Exhaustive: true},
		models.MarketDef{Key: MarketBTTS, DisplayName: "Both Teams To Score", Selections: []string{Yes, No}, Exhaustive: true},
		models.MarketDef{Key: MarketTeamsToScore, DisplayName: "Teams To Score", Selections: []string{NoneScore, OnlyHome, OnlyAway, BothScore}, Exhaustive: true},
	)
	for _, line := range cfg.GoalLines {
		markets = append(markets, models.MarketDef{
			Key:         OverUnderKey(line),
			DisplayName: fmt.Sprintf("Over/Under %.1f", line),
			Selections:  []string{Over, Under},
			Exhaustive:  true,
		})
	}

	return &models.Catalog{
		SportKey:      cfg.SportKey,
		DisplayName:   cfg.DisplayName,
		Markets:       markets,
		PrimaryMarket: Market1X2,
		Outcomes:      []string{Home, Draw, Away},
		Identities:    identities(cfg),
		Sources:       sources(cfg),
	}
}

func identities(cfg *Config) []models.Identity {
	ah0 := AsianHandicapKey("0")
	ahHalf := AsianHandicapKey("-0.5")
	ahOneHalf := AsianHandicapKey("-1.5")

	ids := []models.Identity{
		{Name: "1x2_vs_double_chance_1X", Left: models.P(Market1X2, Home, Draw), Right: models.P(MarketDoubleChance, HomeOrDraw), Relation: models.RelationEqual},
		{Name: "1x2_vs_double_chance_X2", Left: models.P(Market1X2, Draw, Away), Right: models.P(MarketDoubleChance, DrawOrAway), Relation: models.RelationEqual},
		{Name: "1x2_vs_double_chance_12", Left: models.P(Market1X2, Home, Away), Right: models.P(MarketDoubleChance, HomeOrAway), Relation: models.RelationEqual},

		// Draw No Bet refunds the draw: DNB Home = Home / (Home + Away)
		{Name: "1x2_vs_draw_no_bet", Left: models.P(Market1X2, Home).Within(Home, Away), Right: models.P(MarketDrawNoBet, Home), Relation: models.RelationEqual},
		{Name: "1x2_vs_home_no_bet", Left: models.P(Market1X2, Away).Within(Draw, Away), Right: models.P(MarketHomeNoBet, Away), Relation: models.RelationEqual},
		{Name: "1x2_vs_away_no_bet", Left: models.P(Market1X2, Home).Within(Home, Draw), Right: models.P(MarketAwayNoBet, Home), Relation: models.RelationEqual},
		{Name: "draw_no_bet_vs_asian_handicap_0", Left: models.P(MarketDrawNoBet, Home), Right: models.P(ah0, Home), Relation: models.RelationEqual},
	}

	if hasLine(cfg, "-0.5") {
		ids = append(ids,
			models.Identity{Name: "1x2_vs_asian_handicap_-0.5_home", Left: models.P(Market1X2, Home), Right: models.P(ahHalf, Home), Relation: models.RelationEqual},
			models.Identity{Name: "1x2_vs_asian_handicap_-0.5_away", Left: models.P(Market1X2, Draw, Away), Right: models.P(ahHalf, Away), Relation: models.RelationEqual},
		)
	}

	// EH 0:1 gives the away side a one goal start
	ids = append(ids, models.Identity{Name: "1x2_vs_european_handicap_0:1_away", Left: models.P(Market1X2, Draw, Away), Right: models.P(MarketEuroHcp01, Away), Relation: models.RelationEqual})
	if hasLine(cfg, "-1.5") {
		ids = append(ids, models.Identity{Name: "european_handicap_0:1_vs_asian_handicap_-1.5", Left: models.P(MarketEuroHcp01, Home), Right: models.P(ahOneHalf, Home), Relation: models.RelationEqual})
	}

	ids = append(ids,
		models.Identity{Name: "btts_vs_teams_to_score", Left: models.P(MarketBTTS, Yes), Right: models.P(MarketTeamsToScore, BothScore), Relation: models.RelationEqual},
	)
	if len(cfg.GoalLines) > 0 && cfg.GoalLines[0] == 0.5 {
		ids = append(ids, models.Identity{Name: "under_0.5_vs_teams_to_score_none", Left: models.P(OverUnderKey(0.5), Under), Right: models.P(MarketTeamsToScore, NoneScore), Relation: models.RelationEqual})
	}

	// A deeper handicap can never be more likely to cover
	for i := 0; i+1 < len(cfg.AsianHandicapLines); i++ {
		deeper, shallower := cfg.AsianHandicapLines[i], cfg.AsianHandicapLines[i+1]
		ids = append(ids, models.Identity{
			Name:     fmt.Sprintf("asian_handicap_chain_%s_%s", deeper, shallower),
			Left:     models.P(AsianHandicapKey(deeper), Home),
			Right:    models.P(AsianHandicapKey(shallower), Home),
			Relation: models.RelationAtMost,
		})
	}

	for i := 0; i+1 < len(cfg.GoalLines); i++ {
		lower, higher := cfg.GoalLines[i], cfg.GoalLines[i+1]
		ids = append(ids, models.Identity{
			Name:     fmt.Sprintf("over_under_chain_%.1f_%.1f", higher, lower),
			Left:     models.P(OverUnderKey(higher), Over),
			Right:    models.P(OverUnderKey(lower), Over),
			Relation: models.RelationAtMost,
		})
	}

	return ids
}

func sources(cfg *Config) []models.OutcomeSource {
	srcs := []models.OutcomeSource{
		{Outcome: Home, Expr: models.P(Market1X2, Home)},
		{Outcome: Draw, Expr: models.P(Market1X2, Draw)},
		{Outcome: Away, Expr: models.P(Market1X2, Away)},
	}
	if hasLine(cfg, "-0.5") {
		srcs = append(srcs, models.OutcomeSource{Outcome: Home, Expr: models.P(AsianHandicapKey("-0.5"), Home)})
	}
	srcs = append(srcs,
		models.OutcomeSource{Outcome: Home, Expr: models.NotP(MarketDoubleChance, DrawOrAway)},
		models.OutcomeSource{Outcome: Draw, Expr: models.NotP(MarketDoubleChance, HomeOrAway)},
		models.OutcomeSource{Outcome: Away, Expr: models.NotP(MarketDoubleChance, HomeOrDraw)},
		models.OutcomeSource{Outcome: Home, Expr: models.P(MarketEuroHcp01, Home, Draw)},
	)
	return srcs
}

func hasLine(cfg *Config, line string) bool {
	for _, l := range cfg.AsianHandicapLines {
		if l == line {
			return true
		}
	}
	return false
}
