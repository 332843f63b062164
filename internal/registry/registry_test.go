package registry_test

import (
	"strings"
	"testing"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/football"
)

type stubModule struct {
	key     string
	catalog *models.Catalog
}

func (s stubModule) GetSportKey() string { return s.key }
func (s stubModule) GetDisplayName() string { return s.key }
func (s stubModule) Catalog() *models.Catalog { return s.catalog }

func TestNewDefault(t *testing.T) {
	r, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("NewDefault() error: %v", err)
	}

	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}

	all := r.GetAll()
	if all[0].GetSportKey() != "basketball" || all[1].GetSportKey() != "football" {
		t.Errorf("GetAll() not sorted by key: %s, %s", all[0].GetSportKey(), all[1].GetSportKey())
	}

	if _, ok := r.Get("football"); !ok {
		t.Error("football not registered")
	}
	if _, ok := r.Get("cricket"); ok {
		t.Error("cricket should not be registered")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := registry.NewSportRegistry()

	if err := r.Register(football.NewModule()); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	if err := r.Register(football.NewModule()); err == nil {
		t.Error("expected error registering football twice")
	}
}

func TestRegister_InvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		module  stubModule
		wantErr string
	}{
		{
			name:    "nil catalog",
			module:  stubModule{key: "darts"},
			wantErr: "no catalog",
		},
		{
			name: "mismatched key",
			module: stubModule{key: "darts", catalog: &models.Catalog{
				SportKey: "snooker",
			}},
			wantErr: "exposes catalog",
		},
		{
			name: "identity over undeclared market",
			module: stubModule{key: "darts", catalog: &models.Catalog{
				SportKey:      "darts",
				PrimaryMarket: "winner",
				Markets: []models.MarketDef{
					{Key: "winner", Selections: []string{"Home", "Away"}, Exhaustive: true},
				},
				Outcomes: []string{"Home", "Away"},
				Identities: []models.Identity{
					{Name: "ghost", Left: models.P("winner", "Home"), Right: models.P("legs", "Home"), Relation: models.RelationEqual},
				},
				Sources: []models.OutcomeSource{
					{Outcome: "Home", Expr: models.P("winner", "Home")},
					{Outcome: "Away", Expr: models.P("winner", "Away")},
				},
			}},
			wantErr: "legs is not declared",
		},
		{
			name: "outcome without source",
			module: stubModule{key: "darts", catalog: &models.Catalog{
				SportKey:      "darts",
				PrimaryMarket: "winner",
				Markets: []models.MarketDef{
					{Key: "winner", Selections: []string{"Home", "Away"}, Exhaustive: true},
				},
				Outcomes: []string{"Home", "Away"},
				Sources: []models.OutcomeSource{
					{Outcome: "Home", Expr: models.P("winner", "Home")},
				},
			}},
			wantErr: "Away has no source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.NewSportRegistry().Register(tt.module)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
