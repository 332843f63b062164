package markets

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/oddsmath"
)

// Book is the quote table of one fixture turned into margin-free markets
type Book struct {
	// Markets holds every complete market in catalog order
	Markets models.Markets

	// Incomplete lists quoted markets missing at least one selection, in catalog order
	Incomplete []string

	// Incoherent lists complete markets excluded for implying a probability above 1
	Incoherent []string

	Warnings []models.Warning

	// best valid decimal price per market and selection, incomplete markets included
	best map[string]map[string]float64
}

// BestOdds returns the best valid price quoted for a selection
func (b *Book) BestOdds(market, selection string) (float64, bool) {
	sels, ok := b.best[market]
	if !ok {
		return 0, false
	}
	odds, ok := sels[selection]
	return odds, ok
}

// IsIncomplete reports whether a market was quoted but left out for missing selections
func (b *Book) IsIncomplete(market string) bool {
	for _, key := range b.Incomplete {
		if key == market {
			return true
		}
	}
	return false
}

// Build validates quotes against the catalog and normalizes every complete market.
// Bad quotes never fail the build; they become warnings.
func Build(catalog *models.Catalog, quotes []models.Quote) *Book {
	book := &Book{
		best: make(map[string]map[string]float64),
	}

	for _, q := range quotes {
		odds, err := resolveOdds(catalog, q)
		if err != nil {
			book.Warnings = append(book.Warnings, models.WarningFromError(q.Market, q.Selection, err))
			continue
		}

		sels, ok := book.best[q.Market]
		if !ok {
			sels = make(map[string]float64)
			book.best[q.Market] = sels
		}

		if existing, dup := sels[q.Selection]; dup {
			book.Warnings = append(book.Warnings, models.Warning{
				Code:      models.WarningDuplicateQuote,
				Market:    q.Market,
				Selection: q.Selection,
				Message:   fmt.Sprintf("%s %s quoted more than once, keeping best price", q.Market, q.Selection),
			})
			if existing >= odds {
				continue
			}
		}
		sels[q.Selection] = odds
	}

	for _, def := range catalog.Markets {
		sels, quoted := book.best[def.Key]
		if !quoted {
			continue
		}

		market, err := normalize(def, sels)
		if err != nil {
			book.Warnings = append(book.Warnings, models.WarningFromError(def.Key, "", err))
			var incoherent *models.IncoherentMarketError
			if errors.As(err, &incoherent) {
				book.Incoherent = append(book.Incoherent, def.Key)
			} else {
				book.Incomplete = append(book.Incomplete, def.Key)
			}
			continue
		}

		if market.Overround < 0 {
			book.Warnings = append(book.Warnings, models.Warning{
				Code:    models.WarningUnderround,
				Market:  def.Key,
				Message: fmt.Sprintf("%s raw probabilities sum below %.0f (%.2f%% margin)", def.Key, market.Coverage, market.MarginPct),
			})
		}

		book.Markets = append(book.Markets, *market)
	}

	return book
}

// resolveOdds returns the decimal price of a quote or why it cannot be used
func resolveOdds(catalog *models.Catalog, q models.Quote) (float64, error) {
	def, ok := catalog.Market(q.Market)
	if !ok {
		return 0, &models.UnknownMarketWarning{Market: q.Market, Selection: q.Selection}
	}
	if !def.HasSelection(q.Selection) {
		return 0, &models.UnknownMarketWarning{Market: q.Market, Selection: q.Selection, UnknownSelection: true}
	}

	if q.Unparsed != "" {
		return 0, &oddsmath.InvalidOddsError{Raw: q.Unparsed, Reason: "not a number"}
	}

	odds := q.Odds
	if odds == 0 && q.American != nil {
		converted, err := oddsmath.AmericanToDecimal(*q.American)
		if err != nil {
			return 0, &oddsmath.InvalidOddsError{Odds: float64(*q.American), Reason: err.Error()}
		}
		odds = converted
	}

	if err := oddsmath.ValidateDecimal(odds); err != nil {
		return 0, err
	}
	return odds, nil
}

// normalize builds a market from a full set of selection prices
func normalize(def models.MarketDef, prices map[string]float64) (*models.Market, error) {
	var missing []string
	for _, sel := range def.Selections {
		if _, ok := prices[sel]; !ok {
			missing = append(missing, sel)
		}
	}
	if len(missing) > 0 {
		return nil, &models.IncompleteMarketError{Market: def.Key, Missing: missing}
	}

	coverage := def.NormalizationCoverage()
	raw := make([]float64, len(def.Selections))
	for i, sel := range def.Selections {
		p, err := oddsmath.DecimalToImpliedProbability(prices[sel])
		if err != nil {
			return nil, fmt.Errorf("error calculating implied probability: %w", err)
		}
		raw[i] = p
	}

	fair, err := oddsmath.RemoveVigProportional(raw, coverage)
	if err != nil {
		return nil, fmt.Errorf("error removing margin from %s: %w", def.Key, err)
	}

	// Coverage markets can scale one selection past certainty, which would
	// turn its complement negative
	if floats.Max(fair) > 1 {
		i := floats.MaxIdx(fair)
		return nil, &models.IncoherentMarketError{Market: def.Key, Selection: def.Selections[i], Probability: fair[i]}
	}

	margin, err := oddsmath.CalculateVigPercentage(raw, coverage)
	if err != nil {
		return nil, fmt.Errorf("error calculating margin of %s: %w", def.Key, err)
	}

	market := &models.Market{
		Key:         def.Key,
		DisplayName: def.DisplayName,
		Selections:  make([]models.SelectionPrice, len(def.Selections)),
		Coverage:    coverage,
		Overround:   oddsmath.Overround(raw, coverage),
		MarginPct:   margin,
	}
	for i, sel := range def.Selections {
		market.Selections[i] = models.SelectionPrice{
			Selection:  sel,
			Odds:       prices[sel],
			Raw:        raw[i],
			Normalized: fair[i],
		}
	}

	return market, nil
}
