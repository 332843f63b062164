package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/contracts"
)

// SportRegistry manages registered sport modules
type SportRegistry struct {
	modules map[string]contracts.SportModule
	mu      sync.RWMutex
}

// NewSportRegistry creates a new sport registry
func NewSportRegistry() *SportRegistry {
	return &SportRegistry{
		modules: make(map[string]contracts.SportModule),
	}
}

// Register adds a sport module to the registry after validating its catalog
func (r *SportRegistry) Register(module contracts.SportModule) error {
	sportKey := module.GetSportKey()

	catalog := module.Catalog()
	if catalog == nil {
		return fmt.Errorf("sport %s has no catalog", sportKey)
	}
	if catalog.SportKey != sportKey {
		return fmt.Errorf("sport %s exposes catalog for %s", sportKey, catalog.SportKey)
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[sportKey]; exists {
		return fmt.Errorf("sport %s is already registered", sportKey)
	}

	r.modules[sportKey] = module
	return nil
}

// Get retrieves a sport module by sport key
func (r *SportRegistry) Get(sportKey string) (contracts.SportModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module, exists := r.modules[sportKey]
	return module, exists
}

// GetAll returns all registered modules sorted by sport key
func (r *SportRegistry) GetAll() []contracts.SportModule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]contracts.SportModule, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].GetSportKey() < modules[j].GetSportKey()
	})
	return modules
}

// Count returns the number of registered modules
func (r *SportRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.modules)
}
