package handlers

import (
	"net/http"

	"github.com/stockwise/backend/pkg/database"
	"github.com/stockwise/backend/pkg/logger"
)

// HealthHandler reports service liveness and database health.
type HealthHandler struct {
	db     *database.DB
	logger *logger.Logger
}

// NewHealthHandler creates a health handler. db may be nil when the
// process runs without a database.
func NewHealthHandler(db *database.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: log}
}

// Check reports overall health.
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": "stockwise-api",
	}

	if h.db != nil {
		status, err := h.db.HealthCheck(r.Context())
		body["database"] = status
		if err != nil {
			body["status"] = "degraded"
			respondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}

	respondJSON(w, http.StatusOK, body)
}
