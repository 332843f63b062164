package oracle

import (
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/detector"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/markets"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/reconciler"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/valuation"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// Analyze runs the full pipeline over one fixture's quote table:
// normalization, contradiction detection, reconciliation and valuation.
// It is a pure function of its inputs.
func Analyze(catalog *models.Catalog, quotes []models.Quote, opts models.Options) (*models.AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	book := markets.Build(catalog, quotes)
	contradictions := detector.Detect(catalog, book.Markets, opts)

	reconciled, err := reconciler.Reconcile(catalog, book.Markets, contradictions, opts)
	if err != nil {
		var insufficient *models.InsufficientDataError
		if errors.As(err, &insufficient) {
			insufficient.Excluded = excludedMarkets(catalog, book)
		}
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	values, recommendation := valuation.Analyze(catalog, book, reconciled.Estimates, opts)

	result := &models.AnalysisResult{
		Sport:          catalog.SportKey,
		Markets:        book.Markets,
		Contradictions: contradictions,
		Adjustments:    reconciled.Adjustments,
		Estimates:      reconciled.Estimates,
		Values:         values,
		Recommendation: recommendation,
		Confidence:     Confidence(contradictions),
		Warnings:       book.Warnings,
	}

	// Empty lists serialize as [] rather than null
	if result.Markets == nil {
		result.Markets = models.Markets{}
	}
	if result.Contradictions == nil {
		result.Contradictions = []models.Contradiction{}
	}
	if result.Adjustments == nil {
		result.Adjustments = []models.WeightAdjustment{}
	}
	if result.Warnings == nil {
		result.Warnings = []models.Warning{}
	}

	return result, nil
}

// excludedMarkets lists quoted but unusable markets in catalog order
func excludedMarkets(catalog *models.Catalog, book *markets.Book) []string {
	var excluded []string
	for _, def := range catalog.Markets {
		if book.IsIncomplete(def.Key) {
			excluded = append(excluded, def.Key)
			continue
		}
		for _, key := range book.Incoherent {
			if key == def.Key {
				excluded = append(excluded, def.Key)
			}
		}
	}
	return excluded
}

// Confidence grades a sheet by how many serious contradictions it holds
func Confidence(contradictions []models.Contradiction) models.Confidence {
	counts := detector.CountBySeverity(contradictions)
	major, moderate := counts[models.SeverityMajor], counts[models.SeverityModerate]

	switch {
	case major >= 2:
		return models.ConfidenceLow
	case major == 1 || moderate >= 3:
		return models.ConfidenceMedium
	case moderate >= 1:
		return models.ConfidenceGood
	default:
		return models.ConfidenceHigh
	}
}
