package oddsmath_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/oddsmath"
)

func TestAnalyzeEdge(t *testing.T) {
	tests := []struct {
		name       string
		odds       float64
		fair       float64
		wantEdge   float64
		wantEV     float64
		wantKelly  float64
		shouldFail bool
	}{
		{name: "Positive edge at evens", odds: 2.10, fair: 0.50, wantEdge: 0.0238, wantEV: 0.05, wantKelly: 0.0455},
		{name: "No edge", odds: 2.0, fair: 0.50, wantEdge: 0, wantEV: 0, wantKelly: 0},
		{name: "Negative edge", odds: 1.80, fair: 0.50, wantEdge: -0.0556, wantEV: -0.10, wantKelly: 0},
		{name: "Invalid odds", odds: 1.0, fair: 0.50, shouldFail: true},
		{name: "Invalid probability", odds: 2.0, fair: 1.0, shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AnalyzeEdge(tt.odds, tt.fair)

			if tt.shouldFail {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got.Edge-tt.wantEdge) > 0.0001 {
				t.Errorf("Edge = %f, want %f", got.Edge, tt.wantEdge)
			}
			if math.Abs(got.ExpectedValue-tt.wantEV) > 0.0001 {
				t.Errorf("ExpectedValue = %f, want %f", got.ExpectedValue, tt.wantEV)
			}
			if math.Abs(got.KellyFraction-tt.wantKelly) > 0.0001 {
				t.Errorf("KellyFraction = %f, want %f", got.KellyFraction, tt.wantKelly)
			}
		})
	}
}
