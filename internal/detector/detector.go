package detector

import (
	"fmt"
	"sort"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// Detect checks every catalog identity whose markets are both present and
// returns the ones violated by more than the tolerance, largest first.
func Detect(catalog *models.Catalog, markets models.Markets, opts models.Options) []models.Contradiction {
	type found struct {
		order int
		c     models.Contradiction
	}

	var hits []found
	for i, identity := range catalog.Identities {
		left, ok := markets.Get(identity.Left.Market)
		if !ok {
			continue
		}
		right, ok := markets.Get(identity.Right.Market)
		if !ok {
			continue
		}

		lhs, err := identity.Left.Evaluate(left)
		if err != nil {
			continue
		}
		rhs, err := identity.Right.Evaluate(right)
		if err != nil {
			continue
		}

		diff := identity.Violation(lhs, rhs)
		if !opts.Exceeds(diff) {
			continue
		}

		hits = append(hits, found{
			order: i,
			c: models.Contradiction{
				Identity:    identity.Name,
				MarketA:     identity.Left.Market,
				MarketB:     identity.Right.Market,
				Relation:    identity.Relation,
				LHS:         lhs,
				RHS:         rhs,
				Difference:  diff,
				Severity:    opts.SeverityFor(diff),
				Description: describe(identity, lhs, rhs),
			},
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].c.Difference != hits[b].c.Difference {
			return hits[a].c.Difference > hits[b].c.Difference
		}
		return hits[a].order < hits[b].order
	})

	contradictions := make([]models.Contradiction, len(hits))
	for i, h := range hits {
		contradictions[i] = h.c
	}
	return contradictions
}

func describe(identity models.Identity, lhs, rhs float64) string {
	op := "="
	if identity.Relation == models.RelationAtMost {
		op = "<="
	}
	return fmt.Sprintf("%s %s %s expected, got %.2f%% vs %.2f%%", identity.Left, op, identity.Right, lhs*100, rhs*100)
}

// CountBySeverity tallies contradictions per tier
func CountBySeverity(contradictions []models.Contradiction) map[models.Severity]int {
	counts := map[models.Severity]int{
		models.SeverityMinor:    0,
		models.SeverityModerate: 0,
		models.SeverityMajor:    0,
	}
	for _, c := range contradictions {
		counts[c.Severity]++
	}
	return counts
}
