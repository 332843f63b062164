package registry

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/basketball"
	"github.com/XavierBriggs/fortuna/services/market-oracle/sports/football"
)

// NewDefault returns a registry with every built-in sport registered
func NewDefault() (*SportRegistry, error) {
	r := NewSportRegistry()

	if err := r.Register(football.NewModule()); err != nil {
		return nil, fmt.Errorf("failed to register football: %w", err)
	}
	if err := r.Register(basketball.NewModule()); err != nil {
		return nil, fmt.Errorf("failed to register basketball: %w", err)
	}

	return r, nil
}
