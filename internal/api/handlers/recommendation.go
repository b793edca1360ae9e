package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockwise/backend/internal/signal"
	"github.com/stockwise/backend/pkg/logger"
)

// RecommendationHandler serves model-backed trade recommendations.
type RecommendationHandler struct {
	service *signal.Service
	logger  *logger.Logger
}

// NewRecommendationHandler creates a recommendation handler.
func NewRecommendationHandler(service *signal.Service, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: service, logger: log}
}

// Get returns the current recommendation for a ticker.
// GET /api/recommendation/{ticker}
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	rec, err := h.service.GetRecommendation(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Recommendation failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
