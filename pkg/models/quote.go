package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Quote is one priced selection from a bookmaker's market sheet
type Quote struct {
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`               // Decimal odds
	American  *int    `json:"american,omitempty"` // Used when Odds is not set

	// Unparsed holds a price that could not be read as a number. The quote
	// is kept so the market builder can drop it with an invalid_odds warning.
	Unparsed string `json:"-"`
}

// UnmarshalJSON accepts prices as numbers or numeric strings ("2.05", "+150").
// Anything else is recorded in Unparsed instead of failing the whole sheet.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var raw struct {
		Market    string          `json:"market"`
		Selection string          `json:"selection"`
		Odds      json.RawMessage `json:"odds"`
		American  json.RawMessage `json:"american"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*q = Quote{Market: raw.Market, Selection: raw.Selection}

	if text, ok := priceText(raw.Odds); ok {
		odds, err := strconv.ParseFloat(text, 64)
		if err != nil {
			q.Unparsed = text
			return nil
		}
		q.Odds = odds
	}

	if text, ok := priceText(raw.American); ok {
		american, err := strconv.Atoi(strings.TrimPrefix(text, "+"))
		if err != nil {
			if q.Unparsed == "" {
				q.Unparsed = text
			}
			return nil
		}
		q.American = &american
	}

	return nil
}

// priceText returns the text of a JSON price, false when it is absent or null
func priceText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		return text, text != ""
	}
	return string(raw), true
}

// Snapshot is the full quote table of a single fixture
type Snapshot struct {
	FixtureID string           `json:"fixture_id"`
	Sport     string           `json:"sport"`
	Quotes    []Quote          `json:"quotes"`
	Options   *OptionOverrides `json:"options,omitempty"`
}

// SelectionPrice holds one selection of a built market
type SelectionPrice struct {
	Selection  string  `json:"selection"`
	Odds       float64 `json:"odds"`
	Raw        float64 `json:"raw_probability"`        // 1 / odds
	Normalized float64 `json:"normalized_probability"` // After margin removal
}

// Market is a complete, margin-removed market
type Market struct {
	Key         string           `json:"key"`
	DisplayName string           `json:"display_name"`
	Selections  []SelectionPrice `json:"selections"`
	Coverage    float64          `json:"coverage"`   // Target sum of normalized probabilities
	Overround   float64          `json:"overround"`  // Σ raw - coverage
	MarginPct   float64          `json:"margin_pct"` // Vig percentage
}

// Probability returns the normalized probability of a selection
func (m *Market) Probability(selection string) (float64, bool) {
	for _, s := range m.Selections {
		if s.Selection == selection {
			return s.Normalized, true
		}
	}
	return 0, false
}

// NormalizedSum returns Σ normalized probabilities
func (m *Market) NormalizedSum() float64 {
	sum := 0.0
	for _, s := range m.Selections {
		sum += s.Normalized
	}
	return sum
}

// Markets is an ordered set of built markets
type Markets []Market

// Get returns the market with the given key
func (ms Markets) Get(key string) (*Market, bool) {
	for i := range ms {
		if ms[i].Key == key {
			return &ms[i], true
		}
	}
	return nil, false
}
