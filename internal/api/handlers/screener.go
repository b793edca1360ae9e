package handlers

import (
	"net/http"
	"strconv"

	"github.com/stockwise/backend/internal/screener"
	"github.com/stockwise/backend/pkg/logger"
)

// ScreenerHandler serves the fundamentals screener.
type ScreenerHandler struct {
	screener *screener.Screener
	logger   *logger.Logger
}

// NewScreenerHandler creates a screener handler.
func NewScreenerHandler(s *screener.Screener, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{screener: s, logger: log}
}

// Filter returns entries matching the query parameters.
// GET /api/screener?sector=&minCap=&maxCap=
func (h *ScreenerHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := screener.Query{Sector: r.URL.Query().Get("sector")}

	if raw := r.URL.Query().Get("minCap"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "Invalid minCap")
			return
		}
		q.MinCap = v
	}
	if raw := r.URL.Query().Get("maxCap"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "Invalid maxCap")
			return
		}
		q.MaxCap = v
	}

	entries := h.screener.Filter(q)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"results": entries,
	})
}

// Sectors returns the distinct sectors available in the dataset.
// GET /api/screener/sectors
func (h *ScreenerHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": h.screener.Sectors(),
	})
}
