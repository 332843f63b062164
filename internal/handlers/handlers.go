package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/oracle"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/processor"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// maxBodyBytes bounds an analyze request
const maxBodyBytes = 1 << 20

// MetricsProvider exposes stream processing counters
type MetricsProvider interface {
	GetMetrics() processor.Metrics
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	engine   *oracle.Engine
	registry *registry.SportRegistry
	logger   *logrus.Logger
	metrics  MetricsProvider
}

// NewHandler creates a new handler; metrics may be nil when streaming is off
func NewHandler(engine *oracle.Engine, registry *registry.SportRegistry, logger *logrus.Logger, metrics MetricsProvider) *Handler {
	return &Handler{
		engine:   engine,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "market-oracle",
		"sports":  h.registry.Count(),
	})
}

// GetMetrics returns stream processing counters
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		respondError(w, http.StatusNotFound, "stream processing is disabled")
		return
	}
	respondJSON(w, http.StatusOK, h.metrics.GetMetrics())
}

type sportSummary struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Markets     int      `json:"markets"`
	Identities  int      `json:"identities"`
	Outcomes    []string `json:"outcomes"`
}

// ListSports returns every registered sport
func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	modules := h.registry.GetAll()

	sports := make([]sportSummary, 0, len(modules))
	for _, m := range modules {
		catalog := m.Catalog()
		sports = append(sports, sportSummary{
			Key:         m.GetSportKey(),
			DisplayName: m.GetDisplayName(),
			Markets:     len(catalog.Markets),
			Identities:  len(catalog.Identities),
			Outcomes:    catalog.Outcomes,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sports": sports,
		"count":  len(sports),
	})
}

// GetCatalog returns the full market catalog of a sport
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")

	module, ok := h.registry.Get(sport)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown sport: %s", sport))
		return
	}

	respondJSON(w, http.StatusOK, module.Catalog())
}

// GetOptions returns the default analysis thresholds applied to every request
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Options())
}

// Analyze runs the oracle over a posted quote table
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var snapshot models.Snapshot
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&snapshot); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if snapshot.Sport == "" {
		respondError(w, http.StatusBadRequest, "sport is required")
		return
	}
	if len(snapshot.Quotes) == 0 {
		respondError(w, http.StatusBadRequest, "quotes must not be empty")
		return
	}

	envelope := &models.AnalysisEnvelope{
		AnalysisID: uuid.New().String(),
		FixtureID:  snapshot.FixtureID,
		Sport:      snapshot.Sport,
		AnalyzedAt: time.Now().UTC(),
	}
	log := h.logger.WithFields(logrus.Fields{
		"analysis_id": envelope.AnalysisID,
		"fixture_id":  snapshot.FixtureID,
		"sport":       snapshot.Sport,
		"quotes":      len(snapshot.Quotes),
	})

	result, err := h.engine.AnalyzeSnapshot(snapshot)
	if err != nil {
		var insufficient *models.InsufficientDataError
		switch {
		case errors.As(err, &insufficient):
			log.WithFields(logrus.Fields{"missing": insufficient.Outcomes, "excluded": insufficient.Excluded}).Warn("insufficient data")
			envelope.Error = err.Error()
			envelope.MissingOutcomes = insufficient.Outcomes
			envelope.ExcludedMarkets = insufficient.Excluded
			respondJSON(w, http.StatusUnprocessableEntity, envelope)
		case errors.Is(err, oracle.ErrUnknownSport), errors.Is(err, oracle.ErrInvalidOptions):
			log.WithError(err).Info("rejected analysis request")
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("analysis failed")
			respondError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	for _, warning := range result.Warnings {
		log.WithFields(logrus.Fields{"code": warning.Code, "market": warning.Market, "selection": warning.Selection}).Debug(warning.Message)
	}

	envelope.Result = result
	respondJSON(w, http.StatusOK, envelope)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
