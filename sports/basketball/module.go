package basketball

import "github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"

// Module implements SportModule for basketball
type Module struct {
	config  *Config
	catalog *models.Catalog
}

// NewModule creates a basketball module with the default configuration
func NewModule() *Module {
	return NewModuleWithConfig(DefaultConfig())
}

// NewModuleWithConfig creates a basketball module from a custom configuration
func NewModuleWithConfig(cfg *Config) *Module {
	return &Module{
		config:  cfg,
		catalog: BuildCatalog(cfg),
	}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return m.config.SportKey
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return m.config.DisplayName
}

// Catalog returns the basketball market catalog
func (m *Module) Catalog() *models.Catalog {
	return m.catalog
}
