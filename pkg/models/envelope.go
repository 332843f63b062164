package models

import "time"

// AnalysisEnvelope wraps a result for transport. Identity and time live here,
// never in the result itself.
type AnalysisEnvelope struct {
	AnalysisID string          `json:"analysis_id"`
	FixtureID  string          `json:"fixture_id"`
	Sport      string          `json:"sport"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`

	// MissingOutcomes is set when the analysis failed for lack of data
	MissingOutcomes []string `json:"missing_outcomes,omitempty"`
	// ExcludedMarkets are the quoted markets that could not be used
	ExcludedMarkets []string `json:"excluded_markets,omitempty"`
}
