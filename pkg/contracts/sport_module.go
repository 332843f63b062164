package contracts

import "github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"

// SportModule defines the interface for a sport plugged into the oracle
// A sport is pure data: its markets, identities and outcome sources
type SportModule interface {
	// GetSportKey returns the unique identifier for this sport (e.g., "football")
	GetSportKey() string

	// GetDisplayName returns the human-readable name (e.g., "Football (Soccer)")
	GetDisplayName() string

	// Catalog returns the read-only market catalog of the sport
	Catalog() *models.Catalog
}
