package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"tour-analytics/internal/errors"
	"tour-analytics/internal/models"
	"tour-analytics/internal/observability"
	"tour-analytics/internal/services"
)

const version = "1.0.0"

// Analytics are recomputed on every request, so responses must not be
// cached by intermediaries either.
var noStore = map[string]string{
	"Cache-Control": "no-store",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type mixedResponse struct {
	SeasonGenderDistribution models.CrossTab[models.Season, models.Gender]     `json:"season_gender_distribution"`
	TypeAgeDistribution      models.CrossTab[models.TourType, models.AgeGroup] `json:"type_age_distribution"`
	Insights                 models.MixedInsights                              `json:"insights"`
}

func (h *APIHandlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, snapshot, noStore)
}

func (h *APIHandlers) HandleClients(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, snapshot.Clients, noStore)
}

func (h *APIHandlers) HandleTours(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, snapshot.Tours, noStore)
}

func (h *APIHandlers) HandleApplications(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, snapshot.Applications, noStore)
}

func (h *APIHandlers) HandleMixed(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, mixedResponse{
		SeasonGenderDistribution: snapshot.Applications.SeasonGenderDistribution,
		TypeAgeDistribution:      snapshot.Applications.TypeAgeDistribution,
		Insights:                 snapshot.Insights,
	}, noStore)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) snapshot(w http.ResponseWriter, r *http.Request) (*models.Snapshot, bool) {
	snapshot, err := h.analytics.Snapshot(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, toAppError(err), observability.GetRequestID(r.Context()))
		return nil, false
	}
	return snapshot, true
}

func toAppError(err error) *errors.AppError {
	if stderrors.Is(err, services.ErrAnalyticsUnavailable) {
		return errors.AnalyticsUnavailable(err)
	}
	return errors.Wrap(err, errors.CodeInternal, "An unexpected error occurred")
}
