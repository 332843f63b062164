package oracle

import (
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

var (
	// ErrUnknownSport is returned for snapshots of a sport with no registered module
	ErrUnknownSport = errors.New("unknown sport")

	// ErrInvalidOptions wraps threshold validation failures
	ErrInvalidOptions = errors.New("invalid options")
)

// Engine resolves a snapshot's sport and options before running the analysis
type Engine struct {
	registry *registry.SportRegistry
	defaults models.Options
}

// NewEngine creates an engine over the registered sports
func NewEngine(registry *registry.SportRegistry, defaults models.Options) *Engine {
	return &Engine{
		registry: registry,
		defaults: defaults,
	}
}

// Options returns the configured default options
func (e *Engine) Options() models.Options {
	return e.defaults
}

// AnalyzeSnapshot analyzes one fixture snapshot
func (e *Engine) AnalyzeSnapshot(snapshot models.Snapshot) (*models.AnalysisResult, error) {
	module, ok := e.registry.Get(snapshot.Sport)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSport, snapshot.Sport)
	}

	return Analyze(module.Catalog(), snapshot.Quotes, e.defaults.Apply(snapshot.Options))
}
