package basketball_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/basketball"
)

func TestModule_GetSportKey(t *testing.T) {
	module := basketball.NewModule()

	if got := module.GetSportKey(); got != "basketball" {
		t.Errorf("GetSportKey() = %s, want basketball", got)
	}
}

func TestCatalog_Validate(t *testing.T) {
	if err := basketball.NewModule().Catalog().Validate(); err != nil {
		t.Fatalf("basketball catalog is invalid: %v", err)
	}
}

func TestSpreadKey(t *testing.T) {
	tests := []struct {
		line float64
		want string
	}{
		{-0.5, "spread_-0.5"},
		{0.5, "spread_+0.5"},
		{-9.5, "spread_-9.5"},
		{3.5, "spread_+3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := basketball.SpreadKey(tt.line); got != tt.want {
				t.Errorf("SpreadKey(%v) = %s, want %s", tt.line, got, tt.want)
			}
		})
	}
}

func TestConfig_HomeSpreadLadder(t *testing.T) {
	ladder := basketball.DefaultConfig().HomeSpreadLadder()

	if len(ladder) != 20 {
		t.Fatalf("ladder has %d lines, want 20", len(ladder))
	}
	if ladder[0] != -9.5 || ladder[len(ladder)-1] != 9.5 {
		t.Errorf("ladder bounds = %v..%v, want -9.5..9.5", ladder[0], ladder[len(ladder)-1])
	}
	for i := 1; i < len(ladder); i++ {
		if ladder[i] <= ladder[i-1] {
			t.Errorf("ladder not ascending at %d: %v", i, ladder)
		}
	}
}

func TestConfig_TotalLines(t *testing.T) {
	cfg := basketball.DefaultConfig()
	cfg.TotalMin, cfg.TotalMax, cfg.TotalStep = 210.5, 214.5, 1

	lines := cfg.TotalLines()
	want := []float64{210.5, 211.5, 212.5, 213.5, 214.5}
	if len(lines) != len(want) {
		t.Fatalf("TotalLines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("TotalLines()[%d] = %v, want %v", i, lines[i], want[i])
		}
	}

	cfg.TotalStep = 0
	if got := cfg.TotalLines(); got != nil {
		t.Errorf("TotalLines() with zero step = %v, want nil", got)
	}
}

func TestCatalog_Identities(t *testing.T) {
	catalog := basketball.NewModule().Catalog()

	byName := make(map[string]models.Identity)
	for _, identity := range catalog.Identities {
		byName[identity.Name] = identity
	}

	for _, name := range []string{
		"moneyline_vs_handicap_0",
		"moneyline_vs_spread_-0.5",
		"moneyline_vs_spread_+0.5",
		"regulation_home_at_most_moneyline",
		"moneyline_at_most_regulation_home_or_draw",
		"spread_chain_-9.5_-8.5",
		"spread_chain_-0.5_+0.5",
		"total_chain_220.5_219.5",
	} {
		if _, ok := byName[name]; !ok {
			t.Errorf("identity %s not declared", name)
		}
	}

	if byName["regulation_home_at_most_moneyline"].Relation != models.RelationAtMost {
		t.Error("regulation_home_at_most_moneyline should be an at_most relation")
	}
}
