package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/oddsmath"
)

// IncompleteMarketError marks a market quoted without all of its selections
type IncompleteMarketError struct {
	Market  string
	Missing []string
}

func (e *IncompleteMarketError) Error() string {
	return fmt.Sprintf("market %s is incomplete: missing %s", e.Market, strings.Join(e.Missing, ", "))
}

// UnknownMarketWarning marks a quote whose market or selection is not in the catalog
type UnknownMarketWarning struct {
	Market    string
	Selection string
	// UnknownSelection is set when the market is known but the selection is not
	UnknownSelection bool
}

func (e *UnknownMarketWarning) Error() string {
	if e.UnknownSelection {
		return fmt.Sprintf("unknown selection %q in market %s", e.Selection, e.Market)
	}
	return fmt.Sprintf("unknown market %q", e.Market)
}

// IncoherentMarketError marks a market whose margin-free prices imply a
// selection probability above 1, e.g. Double Chance 1X=10, 12=10, X2=1.01
type IncoherentMarketError struct {
	Market      string
	Selection   string
	Probability float64
}

func (e *IncoherentMarketError) Error() string {
	return fmt.Sprintf("market %s is incoherent: %s normalizes to %.4f", e.Market, e.Selection, e.Probability)
}

// InsufficientDataError aborts an analysis when a primary outcome cannot be estimated.
// Excluded lists quoted markets that were dropped as incomplete or incoherent.
type InsufficientDataError struct {
	Sport    string
	Outcomes []string
	Excluded []string
}

func (e *InsufficientDataError) Error() string {
	msg := fmt.Sprintf("insufficient data for %s: no market covers outcome(s) %s", e.Sport, strings.Join(e.Outcomes, ", "))
	if len(e.Excluded) > 0 {
		msg += fmt.Sprintf(" (excluded markets: %s)", strings.Join(e.Excluded, ", "))
	}
	return msg
}

// WarningCode identifies a recoverable problem with the input
type WarningCode string

const (
	WarningInvalidOdds      WarningCode = "invalid_odds"
	WarningIncompleteMarket WarningCode = "incomplete_market"
	WarningIncoherentMarket WarningCode = "incoherent_market"
	WarningUnknownMarket    WarningCode = "unknown_market"
	WarningUnknownSelection WarningCode = "unknown_selection"
	WarningDuplicateQuote   WarningCode = "duplicate_quote"
	WarningUnderround       WarningCode = "underround"
)

// Warning is a recoverable problem attached to the result
type Warning struct {
	Code      WarningCode `json:"code"`
	Market    string      `json:"market,omitempty"`
	Selection string      `json:"selection,omitempty"`
	Message   string      `json:"message"`
}

// WarningFromError classifies a per-quote or per-market error
func WarningFromError(market, selection string, err error) Warning {
	w := Warning{Market: market, Selection: selection, Message: err.Error()}

	var invalid *oddsmath.InvalidOddsError
	var incomplete *IncompleteMarketError
	var incoherent *IncoherentMarketError
	var unknown *UnknownMarketWarning

	switch {
	case errors.As(err, &invalid):
		w.Code = WarningInvalidOdds
	case errors.As(err, &incomplete):
		w.Code = WarningIncompleteMarket
	case errors.As(err, &incoherent):
		w.Code = WarningIncoherentMarket
	case errors.As(err, &unknown):
		w.Code = WarningUnknownMarket
		if unknown.UnknownSelection {
			w.Code = WarningUnknownSelection
		}
	default:
		w.Code = WarningInvalidOdds
	}

	return w
}
