package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockwise/backend/internal/external/news"
	"github.com/stockwise/backend/pkg/logger"
)

// NewsHandler serves scraped headlines.
type NewsHandler struct {
	scraper *news.Scraper
	logger  *logger.Logger
}

// NewNewsHandler creates a news handler.
func NewNewsHandler(scraper *news.Scraper, log *logger.Logger) *NewsHandler {
	return &NewsHandler{scraper: scraper, logger: log}
}

// Get returns recent headlines for a ticker.
// GET /api/news/{ticker}
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	headlines, err := h.scraper.Headlines(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("News scrape failed")
		if errors.Is(err, news.ErrNewsUnavailable) {
			respondError(w, http.StatusBadGateway, "News source unavailable")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load news")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"news":   headlines,
	})
}
