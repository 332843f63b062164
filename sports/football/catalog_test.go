package football_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/football"
)

func TestModule_GetSportKey(t *testing.T) {
	module := football.NewModule()

	if got := module.GetSportKey(); got != "football" {
		t.Errorf("GetSportKey() = %s, want football", got)
	}
	if got := module.GetDisplayName(); got != "Football (Soccer)" {
		t.Errorf("GetDisplayName() = %s, want Football (Soccer)", got)
	}
}

func TestCatalog_Validate(t *testing.T) {
	catalog := football.NewModule().Catalog()

	if err := catalog.Validate(); err != nil {
		t.Fatalf("football catalog is invalid: %v", err)
	}
}

func TestCatalog_Markets(t *testing.T) {
	catalog := football.NewModule().Catalog()

	tests := []struct {
		key      string
		coverage float64
	}{
		{"1x2", 1},
		{"double_chance", 2},
		{"draw_no_bet", 1},
		{"home_no_bet", 1},
		{"away_no_bet", 1},
		{"asian_handicap_0", 1},
		{"asian_handicap_-0.5", 1},
		{"asian_handicap_-1", 1},
		{"asian_handicap_-1.5", 1},
		{"european_handicap_0:1", 1},
		{"btts", 1},
		{"teams_to_score", 1},
		{"over_under_0.5", 1},
		{"over_under_2.5", 1},
		{"over_under_4.5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def, ok := catalog.Market(tt.key)
			if !ok {
				t.Fatalf("market %s not declared", tt.key)
			}
			if got := def.NormalizationCoverage(); got != tt.coverage {
				t.Errorf("coverage = %v, want %v", got, tt.coverage)
			}
		})
	}
}

func TestCatalog_PrimaryOutcomes(t *testing.T) {
	catalog := football.NewModule().Catalog()

	if catalog.PrimaryMarket != "1x2" {
		t.Errorf("PrimaryMarket = %s, want 1x2", catalog.PrimaryMarket)
	}

	want := []string{"Home", "Draw", "Away"}
	if len(catalog.Outcomes) != len(want) {
		t.Fatalf("Outcomes = %v, want %v", catalog.Outcomes, want)
	}
	for i := range want {
		if catalog.Outcomes[i] != want[i] {
			t.Errorf("Outcomes[%d] = %s, want %s", i, catalog.Outcomes[i], want[i])
		}
	}

	// The first source of every outcome is the primary market itself
	for _, outcome := range catalog.Outcomes {
		srcs := catalog.SourcesFor(outcome)
		if len(srcs) == 0 || srcs[0].Expr.Market != "1x2" {
			t.Errorf("first source of %s is not 1x2: %+v", outcome, srcs)
		}
	}
}

func TestCatalog_Chains(t *testing.T) {
	catalog := football.NewModule().Catalog()

	chains := 0
	for _, identity := range catalog.Identities {
		if identity.Relation == models.RelationAtMost {
			chains++
		}
	}

	// Two Asian handicap links and four goal line links
	if chains != 6 {
		t.Errorf("at_most identities = %d, want 6", chains)
	}
}

func TestCatalog_CustomConfigWithoutHalfLine(t *testing.T) {
	cfg := football.DefaultConfig()
	cfg.AsianHandicapLines = []string{"-1.5", "-1"}

	catalog := football.NewModuleWithConfig(cfg).Catalog()
	if err := catalog.Validate(); err != nil {
		t.Fatalf("catalog is invalid: %v", err)
	}

	if _, ok := catalog.Market("asian_handicap_-0.5"); ok {
		t.Error("asian_handicap_-0.5 should not be declared")
	}
	for _, src := range catalog.Sources {
		if src.Expr.Market == "asian_handicap_-0.5" {
			t.Errorf("source references an undeclared market: %v", src.Expr)
		}
	}
}
