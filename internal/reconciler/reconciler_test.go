package reconciler_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/detector"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/reconciler"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/football"
)

func market(key string, coverage float64, sels ...interface{}) models.Market {
	m := models.Market{Key: key, Coverage: coverage}
	for i := 0; i+1 < len(sels); i += 2 {
		m.Selections = append(m.Selections, models.SelectionPrice{
			Selection:  sels[i].(string),
			Normalized: sels[i+1].(float64),
		})
	}
	return m
}

func oneXTwo() models.Market {
	return market("1x2", 1, "Home", 0.45, "Draw", 0.25, "Away", 0.30)
}

func doubleChance() models.Market {
	return market("double_chance", 2, "1X", 0.70, "X2", 0.55, "12", 0.75)
}

func outlierHandicap() models.Market {
	return market("asian_handicap_-0.5", 1, "Home", 0.60, "Away", 0.40)
}

func sum(estimates []models.OutcomeEstimate) float64 {
	total := 0.0
	for _, e := range estimates {
		total += e.Probability
	}
	return total
}

func run(t *testing.T, markets models.Markets) *reconciler.Result {
	t.Helper()

	catalog := football.NewModule().Catalog()
	opts := models.DefaultOptions()
	contradictions := detector.Detect(catalog, markets, opts)

	result, err := reconciler.Reconcile(catalog, markets, contradictions, opts)
	if err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	return result
}

func TestReconcile_SingleMarket(t *testing.T) {
	result := run(t, models.Markets{oneXTwo()})

	want := []float64{0.45, 0.25, 0.30}
	for i, e := range result.Estimates {
		if math.Abs(e.Probability-want[i]) > 1e-9 {
			t.Errorf("P(%s) = %v, want %v", e.Outcome, e.Probability, want[i])
		}
		if e.LeadingMarket != "1x2" {
			t.Errorf("LeadingMarket(%s) = %s, want 1x2", e.Outcome, e.LeadingMarket)
		}
		if e.StdDev != 0 {
			t.Errorf("StdDev(%s) = %v, want 0", e.Outcome, e.StdDev)
		}
	}

	if math.Abs(sum(result.Estimates)-1) > 1e-9 {
		t.Errorf("estimates sum to %v, want 1", sum(result.Estimates))
	}
	if len(result.Adjustments) != 0 {
		t.Errorf("unexpected adjustments: %+v", result.Adjustments)
	}
}

func TestReconcile_ConsensusDownWeightsOutlier(t *testing.T) {
	result := run(t, models.Markets{oneXTwo(), doubleChance(), outlierHandicap()})

	if len(result.Adjustments) != 2 {
		t.Fatalf("got %d adjustments, want 2: %+v", len(result.Adjustments), result.Adjustments)
	}

	first := result.Adjustments[0]
	if first.Market != "asian_handicap_-0.5" || !first.Applied || !first.Consensus {
		t.Errorf("first adjustment = %+v, want applied consensus against asian_handicap_-0.5", first)
	}
	if first.Factor != 0.5 {
		t.Errorf("Factor = %v, want 0.5", first.Factor)
	}

	// The second identity over the same pair must not halve again
	if second := result.Adjustments[1]; second.Applied {
		t.Errorf("second adjustment applied twice: %+v", second)
	}

	home := result.Estimates[0]
	if math.Abs(home.WeightedMean-0.48) > 1e-9 {
		t.Errorf("weighted mean of Home = %v, want 0.48", home.WeightedMean)
	}
	for _, c := range home.Contributions {
		if c.Market == "asian_handicap_-0.5" && c.Weight != 0.5 {
			t.Errorf("handicap weight = %v, want 0.5", c.Weight)
		}
	}

	wantTotal := 0.48 + 0.25 + 0.30
	if math.Abs(home.Probability-0.48/wantTotal) > 1e-9 {
		t.Errorf("P(Home) = %v, want %v", home.Probability, 0.48/wantTotal)
	}
	if math.Abs(sum(result.Estimates)-1) > 1e-9 {
		t.Errorf("estimates sum to %v, want 1", sum(result.Estimates))
	}
}

func TestReconcile_NoConsensusKeepsUniformWeights(t *testing.T) {
	// European handicap Home+Draw disagrees with Double Chance on Home
	euro := market("european_handicap_0:1", 1, "Home", 0.20, "Draw", 0.30, "Away", 0.50)

	result := run(t, models.Markets{oneXTwo(), doubleChance(), outlierHandicap(), euro})

	for _, adj := range result.Adjustments {
		if adj.Applied || adj.Consensus {
			t.Errorf("adjustment without consensus: %+v", adj)
		}
	}

	home := result.Estimates[0]
	if len(home.Contributions) != 4 {
		t.Fatalf("Home has %d contributions, want 4", len(home.Contributions))
	}
	for _, c := range home.Contributions {
		if c.Weight != 1 {
			t.Errorf("%s weight = %v, want 1", c.Market, c.Weight)
		}
	}
	if math.Abs(home.WeightedMean-0.50) > 1e-9 {
		t.Errorf("weighted mean of Home = %v, want 0.50", home.WeightedMean)
	}
	if math.Abs(home.Min-0.45) > 1e-9 || math.Abs(home.Max-0.60) > 1e-9 {
		t.Errorf("spread = [%v, %v], want [0.45, 0.60]", home.Min, home.Max)
	}
	if home.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", home.StdDev)
	}
}

func TestReconcile_LeadingMarketWithoutPrimary(t *testing.T) {
	result := run(t, models.Markets{doubleChance()})

	for _, e := range result.Estimates {
		if e.LeadingMarket != "double_chance" {
			t.Errorf("LeadingMarket(%s) = %s, want double_chance", e.Outcome, e.LeadingMarket)
		}
	}
	if math.Abs(sum(result.Estimates)-1) > 1e-9 {
		t.Errorf("estimates sum to %v, want 1", sum(result.Estimates))
	}
}

func TestReconcile_InsufficientData(t *testing.T) {
	catalog := football.NewModule().Catalog()

	tests := []struct {
		name    string
		markets models.Markets
		want    []string
	}{
		{
			name:    "no markets",
			markets: nil,
			want:    []string{"Home", "Draw", "Away"},
		},
		{
			name:    "only unrelated market",
			markets: models.Markets{market("btts", 1, "Yes", 0.55, "No", 0.45)},
			want:    []string{"Home", "Draw", "Away"},
		},
		{
			name:    "home only through the handicap",
			markets: models.Markets{outlierHandicap()},
			want:    []string{"Draw", "Away"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.Reconcile(catalog, tt.markets, nil, models.DefaultOptions())

			var insufficient *models.InsufficientDataError
			if !errors.As(err, &insufficient) {
				t.Fatalf("error = %v, want InsufficientDataError", err)
			}
			if !reflect.DeepEqual(insufficient.Outcomes, tt.want) {
				t.Errorf("Outcomes = %v, want %v", insufficient.Outcomes, tt.want)
			}
		})
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	markets := models.Markets{oneXTwo(), doubleChance(), outlierHandicap()}

	first := run(t, markets)
	for i := 0; i < 20; i++ {
		if again := run(t, markets); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first", i)
		}
	}
}
